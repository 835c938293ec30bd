package harness

import (
	"fmt"

	"github.com/roach88/schemabind/internal/binder"
	"github.com/roach88/schemabind/internal/schema"
)

// Fixture describes what a scenario must free when it ends.
type Fixture struct {
	Data   any // pointer to the scenario's result slot
	Count  *int
	Config *binder.Config
	Schema *schema.Type
}

// CleanupError is the panic value raised when a fixture cannot be freed.
type CleanupError struct {
	Err error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("fixture cleanup: %v", e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

// Cleanup frees whatever the result slot holds. It is a no-op for an
// empty slot. A failing Free means the binder's accounting is broken, so
// Cleanup panics with a *CleanupError.
func (f *Fixture) Cleanup() {
	count := 0
	if f.Count != nil {
		count = *f.Count
	}
	if err := binder.Free(f.Config, f.Schema, f.Data, count); err != nil {
		panic(&CleanupError{Err: err})
	}
}
