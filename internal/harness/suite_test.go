package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemabind/internal/binder"
	"github.com/roach88/schemabind/internal/report"
	"github.com/roach88/schemabind/internal/testutil"
)

func TestFileTests_AllPass(t *testing.T) {
	rc := newTestReport()
	require.True(t, FileTests(rc, binder.LogWarning, nil))

	res := rc.Results()
	require.Len(t, res, len(FileScenarios))
	for i, s := range FileScenarios {
		assert.Equal(t, s.Name, res[i].Name)
		assert.Equal(t, Heading, res[i].Section)
		assert.True(t, res[i].Pass, "%s: %s", res[i].Name, res[i].Message)
	}
}

func TestFileTests_Golden(t *testing.T) {
	rc := newTestReport()
	require.True(t, FileTests(rc, binder.LogWarning, nil))

	var buf bytes.Buffer
	require.NoError(t, rc.WriteText(&buf))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "file_tests", buf.Bytes())
}

func TestFileTests_SuppressesNoisyDiagnostics(t *testing.T) {
	var rec testutil.LogRecorder

	require.True(t, FileTests(newTestReport(), binder.LogWarning, rec.Func()))
	assert.Empty(t, rec.AtLeast(binder.LogError), "errors from expected failures are silenced")

	rec.Reset()
	require.True(t, FileTests(newTestReport(), binder.LogInfo, rec.Func()))
	errs := rec.AtLeast(binder.LogError)
	require.NotEmpty(t, errs, "info level keeps the callback")

	var messages []string
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "Load: Could not open file: "+BadPath)
}

func TestRun_NoisyScenariosNeverCallLogFn(t *testing.T) {
	noisy, err := Select("file_load_bad_path", "file_load_basic_invalid", "file_load_partial_invalid")
	require.NoError(t, err)

	var rec testutil.LogRecorder
	rc := newTestReport()
	require.True(t, Run(rc, Options{LogLevel: binder.LogNotice, LogFn: rec.Func(), Scenarios: noisy}))
	assert.Equal(t, 3, rc.Passed())
	assert.Empty(t, rec.Entries(), "callback must not run at all")
}

func TestFileTests_DebugLogsQuietScenarios(t *testing.T) {
	var rec testutil.LogRecorder
	require.True(t, FileTests(newTestReport(), binder.LogDebug, rec.Func()))

	debug := 0
	for _, e := range rec.Entries() {
		if e.Level == binder.LogDebug {
			debug++
		}
	}
	assert.NotZero(t, debug)
}

func TestRun_NoLeaks(t *testing.T) {
	mem := binder.NewCountingAllocator()
	rc := newTestReport()

	require.True(t, Run(rc, Options{LogLevel: binder.LogError, Mem: mem}))
	assert.NotZero(t, mem.Allocs())
	assert.Equal(t, mem.Allocs(), mem.Frees())
	assert.Equal(t, 0, mem.Live())
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	failing := Scenario{
		Name: "always_fails",
		Run: func(rc *report.Report, cfg *binder.Config) bool {
			tc := rc.Start("always_fails", nil)
			defer tc.Close()
			return tc.Fail("nope")
		},
	}
	basic, err := Select("file_load_basic")
	require.NoError(t, err)

	rc := newTestReport()
	ok := Run(rc, Options{LogLevel: binder.LogWarning, Scenarios: append([]Scenario{failing}, basic...)})
	assert.False(t, ok)
	assert.Equal(t, 1, rc.Passed())
	assert.Equal(t, 1, rc.Failed())
}

func TestSelect(t *testing.T) {
	all, err := Select()
	require.NoError(t, err)
	assert.Len(t, all, len(FileScenarios))

	got, err := Select("file_load_basic_invalid", "file_load_basic")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "file_load_basic", got[0].Name, "suite order is kept")

	_, err = Select("file_load_missing")
	assert.ErrorContains(t, err, "file_load_missing")
}
