// Package motion coalesces pointer deltas and flushes them on a fixed tick.
package motion

import "sync"

// Accumulator holds motion not yet sent. dx and dy share one lock so a drain
// always returns a correlated pair.
type Accumulator struct {
	mu sync.Mutex
	dx int
	dy int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add adds a delta to the running total.
func (a *Accumulator) Add(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	a.mu.Lock()
	a.dx += dx
	a.dy += dy
	a.mu.Unlock()
}

// Drain returns the running total and resets it to zero in one critical section.
func (a *Accumulator) Drain() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	dx, dy := a.dx, a.dy
	a.dx, a.dy = 0, 0
	return dx, dy
}

// Pending returns the running total without clearing it.
func (a *Accumulator) Pending() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dx, a.dy
}
