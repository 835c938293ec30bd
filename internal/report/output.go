package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/roach88/schemabind/internal/store"
)

// Summary is the JSON form of a report.
type Summary struct {
	RunID     string            `json:"run_id"`
	Name      string            `json:"name"`
	StartedAt time.Time         `json:"started_at"`
	Labels    map[string]string `json:"labels,omitempty"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
	Cases     []Result          `json:"cases"`
}

// Summary returns a snapshot of the report.
func (r *Report) Summary() Summary {
	cases := r.Results()
	if cases == nil {
		cases = []Result{}
	}
	return Summary{
		RunID:     r.id,
		Name:      r.name,
		StartedAt: r.started,
		Labels:    r.labels,
		Passed:    r.Passed(),
		Failed:    r.Failed(),
		Total:     r.Total(),
		Cases:     cases,
	}
}

// WriteText prints one line per case grouped by section, then the totals.
func (r *Report) WriteText(w io.Writer) error {
	section := ""
	for i, res := range r.results {
		if i == 0 || res.Section != section {
			section = res.Section
			if section != "" {
				if _, err := fmt.Fprintln(w, section); err != nil {
					return err
				}
			}
		}
		mark := "✓"
		if !res.Pass {
			mark = "✗"
		}
		if _, err := fmt.Fprintf(w, "  %s %s\n", mark, res.Name); err != nil {
			return err
		}
		if res.Message != "" {
			if _, err := fmt.Fprintf(w, "      %s\n", res.Message); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", r.Passed(), r.Failed(), r.Total())
	return err
}

// WriteJSON prints the Summary as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Summary())
}

// Save persists the run and its cases.
func (r *Report) Save(ctx context.Context, st *store.Store) error {
	run := store.Run{
		ID:        r.id,
		Name:      r.name,
		StartedAt: r.started,
		Passed:    r.Passed(),
		Failed:    r.Failed(),
		Labels:    r.labels,
	}
	cases := make([]store.Case, len(r.results))
	for i, res := range r.results {
		cases[i] = store.Case{
			RunID:   r.id,
			Seq:     res.Seq,
			Section: res.Section,
			Name:    res.Name,
			Pass:    res.Pass,
			Message: res.Message,
		}
	}
	if err := st.SaveRun(ctx, run, cases); err != nil {
		return fmt.Errorf("save report %s: %w", r.id, err)
	}
	return nil
}
