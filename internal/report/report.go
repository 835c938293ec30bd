package report

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultName is used when Options.Name is empty.
const DefaultName = "schemabind"

// IDGenerator produces run IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUIDv7 run IDs.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Clock numbers cases. Next must be strictly increasing.
type Clock interface {
	Next() int64
}

type counter struct{ seq int64 }

func (c *counter) Next() int64 {
	c.seq++
	return c.seq
}

// Options configures a Report. Zero values select defaults.
type Options struct {
	Name   string
	IDs    IDGenerator
	Clock  Clock
	Now    func() time.Time
	Logger *slog.Logger

	// Labels are stored with the run, e.g. the log level it ran at.
	Labels map[string]string
}

// Result is the recorded outcome of one case.
type Result struct {
	Seq     int64  `json:"seq"`
	Section string `json:"section,omitempty"`
	Name    string `json:"name"`
	Pass    bool   `json:"pass"`
	Message string `json:"message,omitempty"`
}

// Report collects case results for one run.
//
// A Report is not safe for concurrent use. Scenarios run one at a time.
type Report struct {
	id      string
	name    string
	started time.Time
	labels  map[string]string
	clock   Clock
	logger  *slog.Logger

	section string
	results []Result
}

// New creates an empty report.
func New(opts Options) *Report {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.IDs == nil {
		opts.IDs = UUIDv7Generator{}
	}
	if opts.Clock == nil {
		opts.Clock = &counter{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Report{
		id:      opts.IDs.Generate(),
		name:    opts.Name,
		started: opts.Now(),
		labels:  opts.Labels,
		clock:   opts.Clock,
	}
	r.logger = opts.Logger.With("component", "report", "run_id", r.id)
	return r
}

// ID returns the run ID.
func (r *Report) ID() string { return r.id }

// Name returns the run name.
func (r *Report) Name() string { return r.name }

// Heading starts a new section. Cases started afterwards belong to it.
func (r *Report) Heading(title string) {
	r.section = title
	r.logger.Info("section", "title", title)
}

// Start begins a case. cleanup may be nil.
func (r *Report) Start(name string, cleanup func()) *Case {
	r.logger.Debug("case started", "name", name)
	return &Case{r: r, name: name, section: r.section, cleanup: cleanup}
}

func (r *Report) record(c *Case, msg string) {
	res := Result{
		Seq:     r.clock.Next(),
		Section: c.section,
		Name:    c.name,
		Pass:    c.pass,
		Message: msg,
	}
	r.results = append(r.results, res)

	if res.Pass {
		r.logger.Info("case passed", "name", res.Name, "seq", res.Seq)
	} else {
		r.logger.Info("case failed", "name", res.Name, "seq", res.Seq, "message", res.Message)
	}
}

// Results returns a copy of the recorded results in the order they finished.
func (r *Report) Results() []Result {
	return append([]Result(nil), r.results...)
}

// Passed returns the number of passing cases.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.results {
		if res.Pass {
			n++
		}
	}
	return n
}

// Failed returns the number of failing cases.
func (r *Report) Failed() int {
	return len(r.results) - r.Passed()
}

// Total returns the number of recorded cases.
func (r *Report) Total() int {
	return len(r.results)
}

// OK reports whether no case has failed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Case is a running scenario. Exactly one outcome is recorded per Case.
type Case struct {
	r       *Report
	name    string
	section string
	cleanup func()
	done    bool
	pass    bool
}

// Name returns the case name.
func (c *Case) Name() string { return c.name }

// Pass runs the cleanup and records success. It returns true.
func (c *Case) Pass() bool {
	return c.finish(true, "")
}

// Fail runs the cleanup and records a failure with msg. It returns false.
func (c *Case) Fail(msg string) bool {
	return c.finish(false, msg)
}

// Failf is Fail with a formatted message.
func (c *Case) Failf(format string, args ...any) bool {
	return c.finish(false, fmt.Sprintf(format, args...))
}

// Close records a failure if the case has no outcome yet. Use it with
// defer directly after Start.
func (c *Case) Close() {
	if !c.done {
		c.finish(false, "no outcome recorded")
	}
}

// finish records the first outcome only. Later calls return it unchanged.
func (c *Case) finish(pass bool, msg string) bool {
	if c.done {
		return c.pass
	}
	c.done = true
	c.pass = pass

	if fn := c.cleanup; fn != nil {
		c.cleanup = nil
		fn()
	}
	c.r.record(c, msg)
	return pass
}
