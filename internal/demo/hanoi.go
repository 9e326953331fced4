// Package demo contains workloads layered on the kernel's public API. They
// are consumers of the scheduler and the neighbor queries, not part of the
// core: each demo builds its own isolated kernel, runs a scenario, and
// reports telemetry.
package demo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/betti-labs/betti-rdl/kernel/compute"
	"github.com/betti-labs/betti-rdl/kernel/torus"
)

// Tower of Hanoi with recursion depth converted into an event chain. Every
// recursive call is an event in toroidal space; the call stack never grows
// because pending calls wait in the bounded ready queue instead of on a
// stack. Moves accumulate additively at a counter cell.

const (
	// Task events encode (disks, from, to, aux) in the payload; pegs are
	// two bits each.
	hanoiDiskShift = 6
	hanoiFromShift = 4
	hanoiToShift   = 2
	hanoiPegMask   = 0x3

	maxHanoiDisks = 20
)

// HanoiResult reports a solved tower.
type HanoiResult struct {
	Disks           int
	Moves           uint64
	EventsProcessed uint64
	MemoryUsed      uint64
}

func hanoiTask(disks, from, to, aux int64) int64 {
	return disks<<hanoiDiskShift | from<<hanoiFromShift | to<<hanoiToShift | aux
}

// SolveHanoi runs the n-disk tower through an isolated kernel and returns
// the move count, which must be 2^n - 1.
func SolveHanoi(disks int, logger *zap.Logger) (HanoiResult, error) {
	if disks < 1 || disks > maxHanoiDisks {
		return HanoiResult{}, fmt.Errorf("demo: disks must be in [1,%d], got %d", maxHanoiDisks, disks)
	}

	// The move counter lives at the origin; tasks walk the z=1 plane so
	// they never collide with it. Pending tasks peak at 2^(n-1), so the
	// ready queue is sized to the tower.
	counter := torus.Coord{}
	counterNode := counter.Index()

	capacity := 1 << disks
	if capacity < compute.DefaultEventCapacity {
		capacity = compute.DefaultEventCapacity
	}

	cfg := compute.DefaultConfig()
	cfg.EventCapacity = capacity
	cfg.StagingCapacity = compute.DefaultStagingCapacity
	cfg.Logger = logger
	cfg.Propagate = func(ev compute.Event, target torus.Coord, state int64) []compute.Followup {
		if ev.Node == counterNode {
			return nil // a completed move, nothing to expand
		}

		n := ev.Value >> hanoiDiskShift
		if n <= 0 {
			return nil
		}

		move := compute.Followup{Target: counter, Delay: 1, Value: 1}
		if n == 1 {
			return []compute.Followup{move}
		}

		from := ev.Value >> hanoiFromShift & hanoiPegMask
		to := ev.Value >> hanoiToShift & hanoiPegMask
		aux := ev.Value & hanoiPegMask

		// The two sub-towers take fresh cells, as the original solver laid
		// them out: one step in x, one step in y.
		return []compute.Followup{
			{Target: target.Offset(1, 0, 0), Delay: 1, Value: hanoiTask(n-1, from, aux, to)},
			move,
			{Target: target.Offset(0, 1, 0), Delay: 1, Value: hanoiTask(n-1, aux, to, from)},
		}
	}

	k, err := compute.New(cfg)
	if err != nil {
		return HanoiResult{}, err
	}

	counterPID := k.Spawn(0, 0, 0)
	if err := k.Inject(0, 0, 1, hanoiTask(int64(disks), 0, 2, 1)); err != nil {
		return HanoiResult{}, err
	}

	for k.Run(4096) > 0 {
	}

	return HanoiResult{
		Disks:           disks,
		Moves:           uint64(k.ProcessState(counterPID)),
		EventsProcessed: k.EventsProcessed(),
		MemoryUsed:      k.MemoryUsed(),
	}, nil
}
