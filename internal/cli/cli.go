package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/Reekin/unityhook/internal/config"
	"github.com/spf13/cobra"
)

// Process exit codes. Diagnostics deliberately get their own code so
// callers can tell "the compiler complained" from "the tool broke".
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitDiagnostics = 2
	ExitInterrupted = 130
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// CLI holds the process-level dependencies every command shares. Writers and
// the stdin reader are injected so tests can run the full command tree
// without touching real process streams.
type CLI struct {
	outW io.Writer
	errW io.Writer
	inR  io.Reader

	configPath string
	logLevel   string
	logFormat  string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

// New creates a CLI bound to the given process streams.
func New(outW, errW io.Writer, inR io.Reader) *CLI {
	return &CLI{outW: outW, errW: errW, inR: inR}
}

// Execute runs the command tree against args and returns the resulting
// error, typically an *ExitError carrying the intended exit code.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.newRootCmd()
	root.SetArgs(args)
	root.SetOut(c.outW)
	root.SetErr(c.errW)
	return root.ExecuteContext(ctx)
}

func (c *CLI) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "unityhook",
		Short:         "Glue between file-edit hooks and a local Unity bridge service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "Path to the unityhook.hcl config file.")
	pf.StringVar(&c.logLevel, "log-level", "warn", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	pf.StringVar(&c.logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output; forces debug-level logging.")

	root.AddCommand(c.newHookCmd())
	root.AddCommand(c.newCompileCmd())
	root.AddCommand(c.newPingCmd())
	return root
}

// setup loads configuration and configures the logger before any command
// runs. Logs go to the error stream so stdout stays machine-parseable.
func (c *CLI) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	c.cfg = cfg

	level := c.logLevel
	if c.verbose {
		level = "debug"
	}
	c.logger = newLogger(level, c.logFormat, c.errW)
	c.logger.Debug("Configuration loaded.", "bridge_url", cfg.Bridge.URL)
	return nil
}
