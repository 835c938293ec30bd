package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, started_at, passed, failed, labels
		FROM runs
		WHERE id = ?
	`, id)
	return scanRun(row)
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
//
// Returns an empty slice (not nil) if the store holds no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, started_at, passed, failed, labels
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadCases returns every case of a run in the order the report recorded
// them.
func (s *Store) ReadCases(ctx context.Context, runID string) ([]Case, error) {
	return s.readCases(ctx, `
		SELECT run_id, seq, section, name, pass, message
		FROM cases
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
}

// ReadFailures returns only the failing cases of a run.
func (s *Store) ReadFailures(ctx context.Context, runID string) ([]Case, error) {
	return s.readCases(ctx, `
		SELECT run_id, seq, section, name, pass, message
		FROM cases
		WHERE run_id = ? AND pass = 0
		ORDER BY seq ASC
	`, runID)
}

func (s *Store) readCases(ctx context.Context, query, runID string) ([]Case, error) {
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	cases := []Case{}
	for rows.Next() {
		var c Case
		var pass int
		if err := rows.Scan(&c.RunID, &c.Seq, &c.Section, &c.Name, &pass, &c.Message); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		c.Pass = pass == 1
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return cases, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var startedAt, labels string
	if err := row.Scan(&run.ID, &run.Name, &startedAt, &run.Passed, &run.Failed, &labels); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	var err error
	if run.StartedAt, err = unmarshalTime(startedAt); err != nil {
		return Run{}, err
	}
	if run.Labels, err = unmarshalLabels(labels); err != nil {
		return Run{}, err
	}
	return run, nil
}
