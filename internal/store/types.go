package store

import "time"

// Run is the stored summary of one suite run.
type Run struct {
	ID        string
	Name      string
	StartedAt time.Time
	Passed    int
	Failed    int

	// Labels records the settings the run was made with, such as the
	// binder log level. Stored as canonical JSON.
	Labels map[string]string
}

// OK reports whether every case in the run passed.
func (r Run) OK() bool {
	return r.Failed == 0
}

// Case is the stored outcome of one scenario.
type Case struct {
	RunID   string
	Seq     int64
	Section string
	Name    string
	Pass    bool
	Message string
}
