package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/schemabind/internal/binder"
	"github.com/roach88/schemabind/internal/harness"
	"github.com/roach88/schemabind/internal/report"
	"github.com/roach88/schemabind/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	LogLevel  string `flag:"log-level" validate:"oneof=debug info notice warning error"`
	DB        string `flag:"db"`
	Scenarios []string

	root *RootOptions
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{root: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the file-loading scenarios",
		Long: `Run the file-loading scenarios against the binder and print a report.

Binder diagnostics at or above --log-level are written to stderr. Above
info, diagnostics from scenarios that fail on purpose are suppressed.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (bad flags, database not writable, etc.)

Examples:
  schemabind run
  schemabind run --log-level debug
  schemabind run --scenario file_load_basic --scenario file_load_bad_path
  schemabind run --db runs.db --format json`,
		Args:          commandArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.LogLevel = rootOpts.v.GetString("log-level")
			opts.DB = rootOpts.v.GetString("db")
			return runSuite(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LogLevel, "log-level", binder.LogWarning.String(), "binder log level (debug|info|notice|warning|error)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringSliceVar(&opts.Scenarios, "scenario", nil, "run only the named scenario (repeatable)")

	return cmd
}

func runSuite(ctx context.Context, opts *RunOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.root, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if err := validateOptions(opts); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	level, err := binder.ParseLogLevel(opts.LogLevel)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	scenarios, err := harness.Select(opts.Scenarios...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}

	logger := opts.root.logger(cmd)
	rc := report.New(report.Options{
		Name:   harness.Heading,
		Logger: logger,
		Labels: map[string]string{"log_level": level.String()},
	})
	formatter.VerboseLog("Run %s: %d scenario(s)", rc.ID(), len(scenarios))

	pass := harness.Run(rc, harness.Options{
		LogLevel:  level,
		LogFn:     binder.SlogLogFn(diagnosticLogger(cmd)),
		Scenarios: scenarios,
	})

	if opts.DB != "" {
		st, err := store.Open(opts.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "open database", err)
		}
		defer st.Close()
		if err := rc.Save(ctx, st); err != nil {
			return WrapExitError(ExitCommandError, "record run", err)
		}
		formatter.VerboseLog("Recorded run %s in %s", rc.ID(), opts.DB)
	}

	if err := outputRun(formatter, rc); err != nil {
		return err
	}
	if !pass {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", rc.Failed()))
	}
	return nil
}

func outputRun(f *OutputFormatter, rc *report.Report) error {
	if f.Format != "json" {
		if err := rc.WriteText(f.Writer); err != nil {
			return err
		}
		if rc.OK() {
			fmt.Fprintln(f.Writer, "✓ All scenarios passed")
		}
		return nil
	}

	resp := CLIResponse{Status: "ok", Data: rc.Summary(), RunID: rc.ID()}
	if !rc.OK() {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    ErrCodeScenarioFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", rc.Failed()),
		}
	}
	return f.JSON(resp)
}
