package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/aes/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config and Logger are resolved before any subcommand runs.
	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the aes CLI.
func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

func newRootCommand() (*cobra.Command, *RootOptions) {
	opts := &RootOptions{Config: config.Default()}

	cmd := &cobra.Command{
		Use:   "aes",
		Short: "aes - Agentic Evaluation Sandbox",
		Long: `Agentic Evaluation Sandbox.

Runs evaluation scenarios with a stubbed Doer and Judge and records the
result as a JSON run artifact plus one line in an append-only evidence log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load configuration", err)
			}
			opts.Config = cfg
			opts.Logger = newLogger(cfg.Log, opts.Verbose, cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "no command given")
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd, opts
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are written to stderr in text mode and to stdout as a JSON
// error response in json mode.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd, opts := newRootCommand()
	if args == nil {
		// cobra reads os.Args when given nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	f := &OutputFormatter{Format: "text", Writer: stderr}
	if opts.Format == "json" {
		f = &OutputFormatter{Format: "json", Writer: stdout}
	}
	_ = f.Error(errorCode(err), err.Error(), errorDetails(err))
	return GetExitCode(err)
}

// logger returns the configured logger, or one that discards everything
// when the root pre-run hook has not executed.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
