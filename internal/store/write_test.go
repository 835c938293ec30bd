package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRun_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	run := createTestRun("run-1", time.Second)
	run.Passed = 3
	run.Failed = 1
	run.Labels = map[string]string{"log_level": "warning", "format": "text"}
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, "File loading tests", got.Name)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, 3, got.Passed)
	assert.Equal(t, 1, got.Failed)
	assert.False(t, got.OK())
	assert.Equal(t, run.Labels, got.Labels)

	var labels string
	require.NoError(t, s.db.QueryRow("SELECT labels FROM runs WHERE id = ?", "run-1").Scan(&labels))
	assert.Equal(t, `{"format":"text","log_level":"warning"}`, labels)
}

func TestWriteRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	run := createTestRun("run-1", 0)
	run.Passed = 1
	require.NoError(t, s.WriteRun(ctx, run))

	run.Passed = 99
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Passed, "second write must not overwrite")
}

func TestWriteRun_EmptyID(t *testing.T) {
	s := createTestStore(t)
	assert.Error(t, s.WriteRun(context.Background(), Run{Name: "x"}))
}

func TestWriteCase_RequiresRun(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteCase(context.Background(), Case{RunID: "missing", Seq: 1, Name: "x", Pass: true})
	assert.Error(t, err, "foreign key must reject orphan cases")
}

func TestSaveRun(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	run := createTestRun("run-1", 0)
	run.Passed, run.Failed = 1, 1
	cases := []Case{
		{Seq: 2, Section: "File loading tests", Name: "file_load_bad_path", Pass: false, Message: "unexpected success"},
		{Seq: 1, Section: "File loading tests", Name: "file_load_basic", Pass: true},
	}
	require.NoError(t, s.SaveRun(ctx, run, cases))

	got, err := s.ReadCases(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "file_load_basic", got[0].Name, "cases come back in seq order")
	assert.True(t, got[0].Pass)
	assert.Equal(t, "run-1", got[1].RunID)
	assert.Equal(t, "unexpected success", got[1].Message)

	failures, err := s.ReadFailures(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "file_load_bad_path", failures[0].Name)
}

func TestSaveRun_RollsBack(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	// The case names a different run, so the foreign key fails and the
	// run row must not survive either.
	cases := []Case{{RunID: "other", Seq: 1, Name: "x"}}
	require.Error(t, s.SaveRun(ctx, createTestRun("run-1", 0), cases))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
