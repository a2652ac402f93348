package suggest

import "sync/atomic"

// Ticket identifies one suggestion request.
type Ticket uint64

// Tracker discards stale suggestion results. Each request takes a ticket;
// only the most recent ticket is current, and Cancel retires it as well.
// A result whose ticket is no longer current is dropped by the caller.
type Tracker struct {
	gen atomic.Uint64
}

// Begin starts a request and returns its ticket. Earlier tickets become stale.
func (t *Tracker) Begin() Ticket {
	return Ticket(t.gen.Add(1))
}

// Current reports whether ticket belongs to the latest, uncancelled request.
func (t *Tracker) Current(ticket Ticket) bool {
	return uint64(ticket) == t.gen.Load()
}

// Cancel makes every outstanding ticket stale.
func (t *Tracker) Cancel() {
	t.gen.Add(1)
}
