// Package testutil provides shared helpers for exercising the unityhook
// command tree against an httptest bridge stand-in.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Reekin/unityhook/internal/cli"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// BridgeServer starts an httptest server playing the bridge role and tears
// it down with the test.
func BridgeServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// WriteConfig writes an HCL config file into a temp dir and returns its path.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "unityhook.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// BridgeConfig renders a minimal config pointing the tool at the given
// bridge URL, with extra blocks appended verbatim.
func BridgeConfig(t *testing.T, url string, extra string) string {
	t.Helper()
	content := fmt.Sprintf("bridge {\n  url = %q\n  timeout = \"5s\"\n}\n%s", url, extra)
	return WriteConfig(t, content)
}

// RunResult holds the outcome of one CLI invocation.
type RunResult struct {
	Stdout string
	Stderr string
	Err    error
}

// RunCLI executes the full command tree with the given stdin and args,
// capturing both output streams.
func RunCLI(t *testing.T, stdin io.Reader, args ...string) *RunResult {
	t.Helper()
	return RunCLIContext(t, context.Background(), stdin, args...)
}

// RunCLIContext is RunCLI with a caller-supplied context, for tests that
// cancel an invocation midway.
func RunCLIContext(t *testing.T, ctx context.Context, stdin io.Reader, args ...string) *RunResult {
	t.Helper()
	outW := &SafeBuffer{}
	errW := &SafeBuffer{}
	err := cli.New(outW, errW, stdin).Execute(ctx, args)
	return &RunResult{Stdout: outW.String(), Stderr: errW.String(), Err: err}
}

// ExitCode extracts the exit code the invocation would terminate with.
func (r *RunResult) ExitCode(t *testing.T) int {
	t.Helper()
	if r.Err == nil {
		return cli.ExitOK
	}
	exitErr, ok := r.Err.(*cli.ExitError)
	if !ok {
		return cli.ExitFailure
	}
	return exitErr.Code
}
