package compute

import (
	"sync/atomic"
	"unsafe"

	"github.com/betti-labs/betti-rdl/kernel/arena"
	"github.com/betti-labs/betti-rdl/kernel/torus"
)

// Process is a cell-resident accumulator. Its id is the node id of the cell
// it occupies, so a cell hosts at most one process and pid lookups are O(1)
// lattice indexing.
type Process struct {
	PID   uint32
	Coord torus.Coord
	State int64
}

// processTable is the bounded process store. Slots come from a fixed arena
// pool; when the pool is exhausted, spawning reuses the oldest live slot
// (documented capacity policy, not an error). Mutation is owned by the
// kernel's scheduler discipline; only the live count is published atomically
// for cross-thread telemetry reads.
type processTable struct {
	pool  *arena.Pool
	slots []Process

	// byNode maps node id -> slot+1; zero means the cell is empty.
	byNode []int32

	count     atomic.Int64
	evictions atomic.Uint64
}

func newProcessTable(capacity int) (*processTable, error) {
	pool, err := arena.NewPool(capacity, int(unsafe.Sizeof(Process{})))
	if err != nil {
		return nil, err
	}
	return &processTable{
		pool:   pool,
		slots:  make([]Process, capacity),
		byNode: make([]int32, torus.LatticeSize),
	}, nil
}

// spawn places a process at the wrapped coordinate and returns its pid.
// Spawning onto an occupied cell resets that process's state and refreshes
// its eviction age. evicted reports the pid whose slot was reclaimed to
// satisfy the spawn, if any.
func (t *processTable) spawn(c torus.Coord) (pid uint32, evicted uint32, didEvict bool) {
	node := c.Index()
	if slot := t.byNode[node] - 1; slot >= 0 {
		t.slots[slot].State = 0
		t.pool.Touch(slot)
		return node, 0, false
	}

	slot, evictedSlot := t.pool.Acquire()
	if evictedSlot != arena.NilSlot {
		old := t.slots[evictedSlot]
		t.byNode[old.PID] = 0
		evicted = old.PID
		didEvict = true
		t.evictions.Add(1)
		t.count.Add(-1)
	}

	t.slots[slot] = Process{PID: node, Coord: c}
	t.byNode[node] = slot + 1
	t.count.Add(1)
	return node, evicted, didEvict
}

// lookup returns the process occupying node, or nil.
func (t *processTable) lookup(node uint32) *Process {
	slot := t.byNode[node] - 1
	if slot < 0 {
		return nil
	}
	return &t.slots[slot]
}

// state returns the accumulated state at node; absent or evicted processes
// read as zero.
func (t *processTable) state(node uint32) int64 {
	if !torus.Valid(node) {
		return 0
	}
	if p := t.lookup(node); p != nil {
		return p.State
	}
	return 0
}

func (t *processTable) liveCount() int {
	return int(t.count.Load())
}

func (t *processTable) reset() {
	t.pool.Reset()
	for i := range t.byNode {
		t.byNode[i] = 0
	}
	t.count.Store(0)
}

// footprintBytes reports the fixed memory owned by the table.
func (t *processTable) footprintBytes() uint64 {
	return t.pool.ArenaBytes() + uint64(len(t.byNode))*uint64(unsafe.Sizeof(int32(0)))
}
