package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemabind/internal/store"
	"github.com/roach88/schemabind/internal/testutil"
)

func seedStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	require.NoError(t, st.SaveRun(ctx, store.Run{
		ID: "run-1", Name: "File loading tests", StartedAt: testutil.Epoch, Passed: 1, Failed: 1,
	}, []store.Case{
		{Seq: 1, Name: "file_load_basic", Pass: true},
		{Seq: 2, Name: "file_load_bad_path", Message: "Success"},
	}))
	return path
}

func TestHistory_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--db is required")
}

func TestHistory_MissingDB(t *testing.T) {
	_, _, err := execute(t, "history", "--db", filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not found")
}

func TestHistory_List(t *testing.T) {
	db := seedStore(t)

	out, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "run-1  2024-01-01T00:00:00Z  1/2 passed  FAIL\n", out)
}

func TestHistory_ListJSON(t *testing.T) {
	db := seedStore(t)

	out, _, err := execute(t, "history", "--db", db, "--format", "json")
	require.NoError(t, err)

	runs := decodeResponse(t, out)["data"].([]any)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].(map[string]any)["id"])
}

func TestHistory_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	st.Close()

	out, _, err := execute(t, "history", "--db", path)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestHistory_RunFailures(t *testing.T) {
	db := seedStore(t)

	out, _, err := execute(t, "history", "--db", db, "--run", "run-1", "--failures")
	require.NoError(t, err)
	assert.Contains(t, out, "Run run-1 (File loading tests) at 2024-01-01T00:00:00Z: 1 passed, 1 failed\n")
	assert.Contains(t, out, "  ✗ file_load_bad_path\n      Success\n")
	assert.NotContains(t, out, "file_load_basic")
}

func TestHistory_UnknownRun(t *testing.T) {
	db := seedStore(t)

	_, _, err := execute(t, "history", "--db", db, "--run", "run-9")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "run not found")
}
