package harness

import (
	"fmt"

	"github.com/roach88/schemabind/internal/binder"
	"github.com/roach88/schemabind/internal/report"
)

// Heading titles the file-loading section of a report.
const Heading = "File loading tests"

// Scenario is one named file-loading check.
type Scenario struct {
	Name string

	// Noisy scenarios make the binder log errors on purpose.
	Noisy bool

	Run func(rc *report.Report, cfg *binder.Config) bool
}

// FileScenarios lists every scenario in suite order, quiet ones first.
var FileScenarios = []Scenario{
	{Name: "file_load_basic", Run: testFileLoadBasic},
	{Name: "file_load_sequence", Run: testFileLoadSequence},
	{Name: "file_load_bad_path", Noisy: true, Run: testFileLoadBadPath},
	{Name: "file_load_basic_invalid", Noisy: true, Run: testFileLoadBasicInvalid},
	{Name: "file_load_partial_invalid", Noisy: true, Run: testFileLoadPartialInvalid},
}

// Options configures a suite run.
type Options struct {
	LogLevel binder.LogLevel
	LogFn    binder.LogFunc

	// Mem defaults to a fresh binder.CountingAllocator, which lets the
	// failure scenarios check for leaks.
	Mem binder.Allocator

	// Scenarios defaults to FileScenarios.
	Scenarios []Scenario
}

// FileTests runs every file-loading scenario and reports whether all of
// them passed. logFn may be nil.
func FileTests(rc *report.Report, level binder.LogLevel, logFn binder.LogFunc) bool {
	return Run(rc, Options{LogLevel: level, LogFn: logFn})
}

// Run executes the scenarios in order against one shared configuration.
// Every scenario runs even after a failure.
func Run(rc *report.Report, opts Options) bool {
	cfg := &binder.Config{
		LogFn:    opts.LogFn,
		LogLevel: opts.LogLevel,
		Flags:    binder.CfgDefault,
		Mem:      opts.Mem,
	}
	if cfg.Mem == nil {
		cfg.Mem = binder.NewCountingAllocator()
	}
	scenarios := opts.Scenarios
	if scenarios == nil {
		scenarios = FileScenarios
	}

	rc.Heading(Heading)

	pass := true
	for _, s := range scenarios {
		// Expected failures log at error level; keep them out of the
		// output unless the caller asked for info or lower.
		if s.Noisy && opts.LogLevel > binder.LogInfo {
			cfg.LogFn = nil
		}
		pass = s.Run(rc, cfg) && pass
	}
	return pass
}

// Select returns the named scenarios in suite order. No names selects all
// of them.
func Select(names ...string) ([]Scenario, error) {
	if len(names) == 0 {
		return FileScenarios, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var out []Scenario
	for _, s := range FileScenarios {
		if want[s.Name] {
			out = append(out, s)
			delete(want, s.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("unknown scenario %q", n)
		}
	}
	return out, nil
}
