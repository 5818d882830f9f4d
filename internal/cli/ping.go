package cli

import (
	"fmt"

	"github.com/Reekin/unityhook/internal/bridge"
	"github.com/Reekin/unityhook/internal/ctxlog"
	"github.com/spf13/cobra"
)

func (c *CLI) newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the bridge service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxlog.WithLogger(cmd.Context(), c.logger)

			client := bridge.NewClient(c.cfg.Bridge.URL, c.cfg.Bridge.Timeout)
			defer client.Close()

			resp, err := client.Ping(ctx)
			if err != nil {
				return &ExitError{Code: ExitFailure, Message: err.Error()}
			}
			if !resp.Success {
				return &ExitError{Code: ExitFailure, Message: "bridge answered but reported failure"}
			}

			fmt.Fprintf(c.outW, "bridge at %s is reachable\n", c.cfg.Bridge.URL)
			return nil
		},
	}
}
