package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Reekin/unityhook/internal/bridge"
	"github.com/Reekin/unityhook/internal/ctxlog"
	"github.com/Reekin/unityhook/internal/editorlog"
	"github.com/spf13/cobra"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	var noTrigger bool
	var output string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Trigger a Unity compilation and report the compiler output",
		Long: `Asks the bridge to refresh the project (which starts a compilation pass
inside the Unity editor), waits for the compilation to begin, then parses
the Editor.log and prints the compiler output of the most recent pass.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxlog.WithLogger(cmd.Context(), c.logger)
			return c.runCompile(ctx, noTrigger, output)
		},
	}

	cmd.Flags().BoolVar(&noTrigger, "no-trigger", false, "Don't trigger a compilation, only read existing logs.")
	cmd.Flags().StringVar(&output, "output", "text", "Output format: 'text' or 'json'.")
	return cmd
}

func (c *CLI) runCompile(ctx context.Context, noTrigger bool, output string) error {
	logger := ctxlog.FromContext(ctx)

	if output != "text" && output != "json" {
		return &ExitError{Code: ExitFailure, Message: "invalid output format: must be 'text' or 'json'"}
	}

	if !noTrigger {
		if err := c.triggerCompilation(ctx); err != nil {
			return err
		}
	} else {
		logger.Debug("Skipping compilation trigger, reading existing logs only.")
	}

	result := c.readCompilationResult(ctx)

	if output == "json" {
		enc := json.NewEncoder(c.outW)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return &ExitError{Code: ExitFailure, Message: err.Error()}
		}
	} else {
		c.printCompilationResult(result)
	}

	if !result.Success {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

// triggerCompilation asks the bridge to refresh the project, then waits the
// configured settle period so the editor has a chance to start compiling.
// Trigger failures are non-fatal: the existing logs are still worth reading.
func (c *CLI) triggerCompilation(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	client := bridge.NewClient(c.cfg.Bridge.URL, c.cfg.Bridge.Timeout)
	defer client.Close()

	resp, err := client.TriggerRefresher(ctx)
	switch {
	case err != nil:
		// A canceled context is the user interrupting, not the bridge
		// being down; it must not fall through to the log-reading path.
		if ctx.Err() != nil {
			return &ExitError{Code: ExitInterrupted, Message: "interrupted"}
		}
		logger.Warn("Failed to trigger Unity compilation, reading existing logs.", "error", err)
		return nil
	case !resp.Success:
		logger.Warn("Bridge declined the refresh, reading existing logs.", "error", resp.Error)
		return nil
	}

	logger.Debug("Compilation triggered, waiting for it to start.", "settle", c.cfg.Editor.Settle)
	select {
	case <-time.After(c.cfg.Editor.Settle):
		return nil
	case <-ctx.Done():
		return &ExitError{Code: ExitInterrupted, Message: "interrupted"}
	}
}

// readCompilationResult locates and parses the Editor.log. Failures are
// folded into the result so both output formats render them uniformly.
func (c *CLI) readCompilationResult(ctx context.Context) *editorlog.Result {
	logger := ctxlog.FromContext(ctx)

	path, err := editorlog.Locate(c.cfg.Editor.LogPath)
	if err != nil {
		return &editorlog.Result{Success: false, Message: err.Error(), Logs: []string{}}
	}
	logger.Debug("Parsing editor log.", "path", path)

	result, err := editorlog.ParseFile(path)
	if err != nil {
		return &editorlog.Result{Success: false, Message: err.Error(), Logs: []string{}}
	}
	return result
}

func (c *CLI) printCompilationResult(result *editorlog.Result) {
	if !result.Success {
		fmt.Fprintf(c.outW, "[COMPILATION FAILED] %s\n", result.Message)
		return
	}

	fmt.Fprintln(c.outW, result.Message)
	if len(result.Logs) == 0 {
		fmt.Fprintln(c.outW, "[LOGS] No compilation errors or warnings")
		return
	}

	fmt.Fprintf(c.outW, "\n[LOGS] Compilation logs (%d entries):\n", len(result.Logs))
	for i, line := range result.Logs {
		fmt.Fprintf(c.outW, "  %3d. %s\n", i+1, line)
	}
}
