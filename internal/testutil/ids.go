package testutil

import (
	"fmt"
	"sync"
)

// FixedIDs hands out run IDs from a known list so stored reports and golden
// output stay byte-identical between runs.
//
// Once the list is exhausted it continues with "run-<n>". With no list at
// all every ID is generated that way.
type FixedIDs struct {
	mu   sync.Mutex
	ids  []string
	next int
}

// NewFixedIDs creates a generator that returns ids in order.
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// Generate returns the next ID.
func (g *FixedIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.next
	g.next++
	if i < len(g.ids) {
		return g.ids[i]
	}
	return fmt.Sprintf("run-%d", i+1)
}
