package compute

import "github.com/betti-labs/betti-rdl/kernel/torus"

// CombineRule selects how an event's payload folds into the accumulated
// state of its target process. Additive accumulation is the default; the
// rule is configurable because the combining semantic is a policy of the
// workload, not of the scheduler.
type CombineRule int

const (
	CombineAdd CombineRule = iota
	CombineOverwrite
	CombineMax
)

var combineNames = map[CombineRule]string{
	CombineAdd:       "add",
	CombineOverwrite: "overwrite",
	CombineMax:       "max",
}

func (r CombineRule) String() string {
	if name, ok := combineNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r CombineRule) valid() bool {
	_, ok := combineNames[r]
	return ok
}

func (r CombineRule) apply(state, value int64) int64 {
	switch r {
	case CombineOverwrite:
		return value
	case CombineMax:
		if value > state {
			return value
		}
		return state
	default:
		return state + value
	}
}

// Followup describes an event a dispatch wants to enqueue: a target cell, a
// delay in ticks relative to the triggering event, and a payload. This is
// how logical recursion is expressed without stack frames.
type Followup struct {
	Target torus.Coord
	Delay  uint64
	Value  int64
}

// PropagationFunc decides the follow-up events of a dispatch. It receives
// the dispatched event, its wrapped target coordinate, and the target
// process state after combining (zero when no process occupies the cell).
// A nil PropagationFunc means events terminate at their target.
//
// Propagation runs on the scheduler thread and must be deterministic: no
// wall clock, no randomness, no shared mutable state.
type PropagationFunc func(ev Event, target torus.Coord, state int64) []Followup

// ChainPropagation forwards each event one cell along the x axis with an
// incremented payload, one tick later, while the next x stays below width.
// This is the reference workload for bounded event chains.
func ChainPropagation(width int32) PropagationFunc {
	return func(ev Event, target torus.Coord, state int64) []Followup {
		next := (target.X + 1) % torus.Size
		if next >= width {
			return nil
		}
		return []Followup{{
			Target: torus.Coord{X: next, Y: target.Y, Z: target.Z},
			Delay:  1,
			Value:  ev.Value + 1,
		}}
	}
}

// BroadcastPropagation forwards a decremented payload to the full Moore
// neighborhood until the payload reaches zero. Used by spatial demos.
func BroadcastPropagation() PropagationFunc {
	return func(ev Event, target torus.Coord, state int64) []Followup {
		if ev.Value <= 1 {
			return nil
		}
		neighbors := target.Neighbors()
		out := make([]Followup, 0, len(neighbors))
		for _, n := range neighbors {
			out = append(out, Followup{Target: n, Delay: 1, Value: ev.Value - 1})
		}
		return out
	}
}
