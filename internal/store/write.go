package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	return writeRun(ctx, s.db, run)
}

// WriteCase inserts a case record. The run it references must exist.
// Duplicate (run_id, seq) pairs are silently ignored.
func (s *Store) WriteCase(ctx context.Context, c Case) error {
	return writeCase(ctx, s.db, c)
}

// SaveRun writes a run and all of its cases in one transaction, so a
// stored run is never missing cases.
func (s *Store) SaveRun(ctx context.Context, run Run, cases []Case) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin: %w", err)
	}
	defer tx.Rollback()

	if err := writeRun(ctx, tx, run); err != nil {
		return err
	}
	for _, c := range cases {
		if c.RunID == "" {
			c.RunID = run.ID
		}
		if err := writeCase(ctx, tx, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func writeRun(ctx context.Context, db execer, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("write run: empty id")
	}
	labels, err := marshalLabels(run.Labels)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, name, started_at, passed, failed, labels)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Name,
		marshalTime(run.StartedAt),
		run.Passed,
		run.Failed,
		labels,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

func writeCase(ctx context.Context, db execer, c Case) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO cases (run_id, seq, section, name, pass, message)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		c.RunID,
		c.Seq,
		c.Section,
		c.Name,
		boolToInt(c.Pass),
		c.Message,
	)
	if err != nil {
		return fmt.Errorf("write case: %w", err)
	}
	return nil
}
