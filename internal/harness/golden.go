package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/schemabind/internal/canon"
)

// AssertSnapshot compares canonical JSON for v against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertSnapshot(t *testing.T, name string, v any) {
	t.Helper()

	data, err := canon.Marshal(v)
	if err != nil {
		t.Fatalf("snapshot %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
