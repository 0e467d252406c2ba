package testutil

import "sync"

// FixedIDGenerator returns predetermined run ids in order.
//
// Example:
//
//	gen := NewFixedIDGenerator("run-1", "run-2")
//	gen.Generate() // "run-1"
//	gen.Generate() // "run-2"
//	gen.Generate() // panic: all ids exhausted
//
// Thread-safety: FixedIDGenerator is safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator over ids.
// With no ids, Generate always returns "test-run-default".
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics once every id has been consumed, to catch tests that generate
// more runs than they expect.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.ids) == 0 {
		return "test-run-default"
	}
	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
