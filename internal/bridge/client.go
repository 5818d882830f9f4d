package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Reekin/unityhook/internal/ctxlog"
	"resty.dev/v3"
)

// Client talks to a single bridge endpoint. It is safe to reuse across
// calls but is typically created, used once and closed per invocation.
type Client struct {
	url string
	rc  *resty.Client
}

// NewClient creates a client for the given endpoint URL. A zero timeout
// leaves the transport default in place.
func NewClient(url string, timeout time.Duration) *Client {
	rc := resty.New()
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &Client{url: url, rc: rc}
}

// Close releases the underlying transport resources.
func (c *Client) Close() error {
	return c.rc.Close()
}

// RefreshProject notifies the bridge that the given files changed and
// returns the project diagnostics it reports back.
func (c *Client) RefreshProject(ctx context.Context, files []string, isAdd bool) (*Response, error) {
	return c.send(ctx, &Request{Action: ActionRefreshProject, Files: files, IsAdd: isAdd})
}

// TriggerRefresher asks the bridge to kick off a Unity asset refresh, which
// starts a compilation pass inside the editor.
func (c *Client) TriggerRefresher(ctx context.Context) (*Response, error) {
	return c.send(ctx, &Request{Action: ActionFilesRefresher, Files: []string{}})
}

// Ping checks that the bridge is reachable and answering.
func (c *Client) Ping(ctx context.Context) (*Response, error) {
	return c.send(ctx, &Request{Action: ActionPing, Files: []string{}})
}

// send posts one request and decodes the response. No retries: a hook must
// never stall the editor loop it is called from.
func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Sending bridge request.", "action", req.Action, "url", c.url, "files", len(req.Files))

	res, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("bridge request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("bridge returned %s", res.Status())
	}

	var out Response
	if err := json.Unmarshal(res.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode bridge response: %w", err)
	}
	logger.Debug("Bridge response decoded.", "action", req.Action, "success", out.Success)
	return &out, nil
}
