package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/schemabind/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	DB       string `flag:"db" validate:"required"`
	Limit    int    `flag:"limit" validate:"min=0"`
	RunID    string `flag:"run"`
	Failures bool

	root *RootOptions
}

// RunView is the JSON form of a stored run.
type RunView struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	StartedAt time.Time         `json:"started_at"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// CaseView is the JSON form of a stored case.
type CaseView struct {
	Seq     int64  `json:"seq"`
	Section string `json:"section,omitempty"`
	Name    string `json:"name"`
	Pass    bool   `json:"pass"`
	Message string `json:"message,omitempty"`
}

// RunDetail is a run together with its cases.
type RunDetail struct {
	Run   RunView    `json:"run"`
	Cases []CaseView `json:"cases"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{root: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with "schemabind run --db", newest first, or show the
cases of one run with --run.

Examples:
  schemabind history --db runs.db
  schemabind history --db runs.db --limit 5
  schemabind history --db runs.db --run <run-id> --failures`,
		Args:          commandArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DB = rootOpts.v.GetString("db")
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database written by run --db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the cases of this run")
	cmd.Flags().BoolVar(&opts.Failures, "failures", false, "with --run, show failing cases only")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.root, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if err := validateOptions(opts); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	if _, err := os.Stat(opts.DB); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		return showRun(ctx, formatter, st, opts)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	views := make([]RunView, len(runs))
	for i, r := range runs {
		views[i] = runView(r)
	}
	if formatter.Format == "json" {
		return formatter.JSON(CLIResponse{Status: "ok", Data: views})
	}

	w := formatter.Writer
	if len(views) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range views {
		status := "ok"
		if r.Failed > 0 {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s  %s  %d/%d passed  %s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Passed, r.Passed+r.Failed, status)
	}
	return nil
}

func showRun(ctx context.Context, f *OutputFormatter, st *store.Store, opts *HistoryOptions) error {
	run, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "read run", err)
	}

	read := st.ReadCases
	if opts.Failures {
		read = st.ReadFailures
	}
	cases, err := read(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "read cases", err)
	}

	detail := RunDetail{Run: runView(run), Cases: make([]CaseView, len(cases))}
	for i, c := range cases {
		detail.Cases[i] = CaseView{Seq: c.Seq, Section: c.Section, Name: c.Name, Pass: c.Pass, Message: c.Message}
	}
	if f.Format == "json" {
		return f.JSON(CLIResponse{Status: "ok", Data: detail, RunID: run.ID})
	}

	w := f.Writer
	fmt.Fprintf(w, "Run %s (%s) at %s: %d passed, %d failed\n",
		run.ID, run.Name, run.StartedAt.Format(time.RFC3339), run.Passed, run.Failed)
	for _, c := range detail.Cases {
		mark := "✓"
		if !c.Pass {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, c.Name)
		if c.Message != "" {
			fmt.Fprintf(w, "      %s\n", c.Message)
		}
	}
	return nil
}

func runView(r store.Run) RunView {
	return RunView{
		ID:        r.ID,
		Name:      r.Name,
		StartedAt: r.StartedAt,
		Passed:    r.Passed,
		Failed:    r.Failed,
		Labels:    r.Labels,
	}
}
