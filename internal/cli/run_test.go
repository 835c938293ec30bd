package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	level := runCmd.Flags().Lookup("log-level")
	require.NotNil(t, level)
	assert.Equal(t, "warning", level.DefValue)
	assert.NotNil(t, runCmd.Flags().Lookup("db"))
	assert.NotNil(t, runCmd.Flags().Lookup("scenario"))
}

func TestRun_Text(t *testing.T) {
	out, stderr, err := execute(t, "run")
	require.NoError(t, err)

	assert.Contains(t, out, "File loading tests\n")
	assert.Contains(t, out, "  ✓ file_load_basic\n")
	assert.Contains(t, out, "Test Summary: 5 passed, 0 failed, 5 total")
	assert.Contains(t, out, "✓ All scenarios passed")
	assert.NotContains(t, stderr, "Could not open file", "warning level silences expected failures")
}

func TestRun_JSON(t *testing.T) {
	out, _, err := execute(t, "run", "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["run_id"])

	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(5), data["total"])
	assert.Equal(t, float64(0), data["failed"])
	assert.Equal(t, "warning", data["labels"].(map[string]any)["log_level"])
}

func TestRun_SelectScenarios(t *testing.T) {
	out, _, err := execute(t, "run", "--scenario", "file_load_basic", "--scenario", "file_load_bad_path")
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")

	_, _, err = execute(t, "run", "--scenario", "file_load_nothing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "file_load_nothing")
}

func TestRun_InvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "run", "--log-level", "loud")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--log-level must be one of")
}

func TestRun_InfoLevelShowsDiagnostics(t *testing.T) {
	t.Setenv("SCHEMABIND_LOG_LEVEL", "info")

	_, stderr, err := execute(t, "run")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Could not open file")
	assert.Contains(t, stderr, "component=binder")
}

func TestRun_RecordsRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, _, err := execute(t, "run", "--db", db, "--format", "json")
	require.NoError(t, err)
	runID := decodeResponse(t, out)["run_id"].(string)

	out, _, err = execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "5/5 passed  ok")

	out, _, err = execute(t, "history", "--db", db, "--run", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "Run "+runID+" (File loading tests)")
	assert.Contains(t, out, "  ✓ file_load_partial_invalid\n")
}
