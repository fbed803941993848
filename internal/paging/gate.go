package paging

import "sync/atomic"

// Gate allows at most one outstanding request for a fetch stream. A rejected
// acquisition is dropped, never queued; the next trigger retries.
type Gate struct {
	busy atomic.Bool
}

// TryAcquire marks the gate busy and returns true, or returns false at once
// when a request is already in flight.
func (g *Gate) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release marks the gate idle. Call it exactly once per successful TryAcquire,
// normally via defer.
func (g *Gate) Release() {
	g.busy.Store(false)
}

// Busy reports whether a request is in flight.
func (g *Gate) Busy() bool {
	return g.busy.Load()
}
