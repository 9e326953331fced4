package compute

import "github.com/betti-labs/betti-rdl/kernel/torus"

// Event is a unit of scheduled work: a payload addressed to a lattice cell
// at a logical timestamp. Events are created at injection or as follow-ups
// during dispatch, and their slot is released as soon as they are dispatched;
// the live set never exceeds the event pool capacity however long the
// logical chain runs.
type Event struct {
	// Time is the logical timestamp. Dispatch order is non-decreasing in
	// Time across the lifetime of the kernel.
	Time uint64

	// Node is the target cell id (torus.Coord Index encoding).
	Node uint32

	// Source is the cell id of the event that caused this one, or the
	// target itself for injected events.
	Source uint32

	// Value is the payload applied to the target process state through the
	// kernel's combine rule.
	Value int64

	// seq is the injection sequence number, the deterministic tie-break for
	// events carrying equal timestamps.
	seq uint64
}

// Target returns the event's destination coordinate.
func (e Event) Target() torus.Coord {
	return torus.FromIndex(e.Node)
}

// eventLess orders the ready queue: timestamp first, then injection sequence
// so that equal-time events dispatch FIFO.
func eventLess(a, b Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.seq < b.seq
}
