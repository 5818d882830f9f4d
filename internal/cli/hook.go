package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Reekin/unityhook/internal/bridge"
	"github.com/Reekin/unityhook/internal/ctxlog"
	"github.com/Reekin/unityhook/internal/diag"
	"github.com/Reekin/unityhook/internal/hookinput"
	"github.com/spf13/cobra"
)

func (c *CLI) newHookCmd() *cobra.Command {
	var isAdd bool
	var output string

	cmd := &cobra.Command{
		Use:   "hook [files...]",
		Short: "Notify the bridge about edited files and report project diagnostics",
		Long: `Reads file paths from positional arguments or from a JSON hook payload
piped to stdin, notifies the bridge, and maps the returned diagnostics to
the exit code: 0 for a clean project, 2 when diagnostics are present, 1 on
any transport or decoding failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxlog.WithLogger(cmd.Context(), c.logger)
			return c.runHook(ctx, args, isAdd, output)
		},
	}

	cmd.Flags().BoolVar(&isAdd, "add", false, "Mark the files as newly added rather than edited.")
	cmd.Flags().StringVar(&output, "output", "text", "Diagnostics output format: 'text' or 'json'.")
	return cmd
}

func (c *CLI) runHook(ctx context.Context, args []string, isAdd bool, output string) error {
	logger := ctxlog.FromContext(ctx)

	if output != "text" && output != "json" {
		return &ExitError{Code: ExitFailure, Message: "invalid output format: must be 'text' or 'json'"}
	}

	files, err := hookinput.Resolve(c.inR, args)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}

	files = hookinput.Filter(files, c.cfg.Hook.Extensions)
	if len(files) == 0 {
		logger.Debug("No matching source files, skipping bridge call.")
		return nil
	}
	logger.Debug("Notifying bridge.", "files", files, "is_add", isAdd)

	client := bridge.NewClient(c.cfg.Bridge.URL, c.cfg.Bridge.Timeout)
	defer client.Close()

	resp, err := client.RefreshProject(ctx, files, isAdd)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	if !resp.Success {
		msg := "bridge reported failure"
		if resp.Error != "" {
			msg = fmt.Sprintf("bridge reported failure: %s", resp.Error)
		}
		return &ExitError{Code: ExitFailure, Message: msg}
	}

	if resp.Diagnostics.Clean() {
		logger.Debug("Project is clean.")
		return nil
	}

	if output == "json" {
		enc := json.NewEncoder(c.outW)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp.Diagnostics); err != nil {
			return &ExitError{Code: ExitFailure, Message: err.Error()}
		}
	} else {
		diag.Render(c.errW, resp.Diagnostics)
	}

	return &ExitError{Code: ExitDiagnostics, Message: diag.Summary(resp.Diagnostics)}
}
