package cli

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the CLI reads, e.g.
// SCHEMABIND_FORMAT or SCHEMABIND_LOG_LEVEL.
const EnvPrefix = "SCHEMABIND"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string `validate:"oneof=text json"`

	// v resolves flag values against the environment.
	v *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the schemabind CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{v: newViper()}

	cmd := &cobra.Command{
		Use:   "schemabind",
		Short: "schemabind - schema-driven YAML loading",
		Long: `Load YAML documents into typed values described by a schema, and run
the file-loading scenarios that check the binder's error and cleanup paths.

Flags can also be set from the environment with the SCHEMABIND_ prefix,
for example SCHEMABIND_FORMAT=json or SCHEMABIND_LOG_LEVEL=debug.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.v.BindPFlags(cmd.Flags()); err != nil {
				return WrapExitError(ExitCommandError, "bind flags", err)
			}
			opts.Verbose = opts.v.GetBool("verbose")
			opts.Format = opts.v.GetString("format")
			if err := validateOptions(opts); err != nil {
				return WrapExitError(ExitCommandError, "invalid options", err)
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// logger returns the diagnostic logger for a command. Diagnostics always
// go to stderr so they never corrupt JSON output. Without --verbose only
// warnings and above are shown.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// diagnosticLogger receives binder diagnostics. The binder filters by its
// own log level, so the handler lets everything through.
func diagnosticLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// commandArgs wraps a cobra argument check so that usage mistakes exit with
// ExitCommandError.
func commandArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}
