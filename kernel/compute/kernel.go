// Package compute implements the Betti-RDL discrete-event kernel: a
// deterministic scheduler over a 32^3 toroidal lattice whose entire state
// lives in pools sized at construction. Logical recursion of any depth runs
// as a flat event loop, so live memory stays at pool capacity times slot
// size no matter how long the chain gets.
package compute

import (
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/betti-labs/betti-rdl/kernel/foundation"
	"github.com/betti-labs/betti-rdl/kernel/torus"
	"github.com/betti-labs/betti-rdl/kernel/utils"
)

// ErrBusy is returned when an operation requires the kernel to be idle.
var ErrBusy = utils.NewError("compute: kernel is running")

// historyDepth is the fixed number of retained per-batch telemetry
// snapshots. Counted into MemoryUsed like every other pool.
const historyDepth = 64

// Kernel owns one toroidal space, a bounded process table, and a bounded
// event queue, and drives the run loop that dispatches events in timestamp
// order.
//
// Concurrency contract: Inject and the telemetry accessors are safe from any
// goroutine at any time. Spawn, Run and Reset belong to one owner goroutine;
// instances are never shared between kernels, so parallel scaling means one
// kernel per goroutine, not parallel dispatch within one.
type Kernel struct {
	id     string
	config Config
	logger *zap.Logger

	state atomic.Int32

	ready   *foundation.MinHeap[Event]
	staging *foundation.Staging[Event]
	procs   *processTable

	// Per-batch telemetry snapshots, oldest overwritten first. Owner
	// goroutine only.
	history *foundation.Vector[Telemetry]

	currentTime     atomic.Uint64
	eventsProcessed atomic.Uint64
	seq             atomic.Uint64
	followupDrops   atomic.Uint64
	flushDrops      atomic.Uint64

	// Fixed at construction; the memory-boundedness guarantee in a number.
	memoryUsed uint64
}

// New constructs a kernel. Configuration errors are fatal here: a zero-sized
// pool returns an error and no kernel.
func New(config Config) (*Kernel, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	ready, err := foundation.NewMinHeap[Event](config.EventCapacity, eventLess)
	if err != nil {
		return nil, utils.WrapError(err, "compute: ready queue")
	}
	staging, err := foundation.NewStaging[Event](config.StagingCapacity)
	if err != nil {
		return nil, utils.WrapError(err, "compute: staging buffer")
	}
	procs, err := newProcessTable(config.ProcessCapacity)
	if err != nil {
		return nil, utils.WrapError(err, "compute: process table")
	}
	history, err := foundation.NewVector[Telemetry](historyDepth)
	if err != nil {
		return nil, utils.WrapError(err, "compute: telemetry history")
	}
	history.SetOverwrite(true)

	eventSize := uint64(unsafe.Sizeof(Event{}))
	k := &Kernel{
		id:      utils.GenerateID(),
		config:  config,
		logger:  config.Logger,
		ready:   ready,
		staging: staging,
		procs:   procs,
		history: history,
		memoryUsed: uint64(config.EventCapacity)*eventSize +
			uint64(config.StagingCapacity)*eventSize +
			procs.footprintBytes() +
			historyDepth*uint64(unsafe.Sizeof(Telemetry{})),
	}
	k.state.Store(int32(StateIdle))

	if k.logger != nil {
		k.logger.Info("kernel initialized",
			zap.String("id", k.id),
			zap.Int("event_capacity", config.EventCapacity),
			zap.Int("process_capacity", config.ProcessCapacity),
			zap.Int("staging_capacity", config.StagingCapacity),
			zap.Stringer("combine", config.Combine),
			zap.Uint64("memory_used", k.memoryUsed),
		)
	}
	return k, nil
}

// ID returns the instance id used in logs and telemetry.
func (k *Kernel) ID() string { return k.id }

// State returns the current lifecycle state.
func (k *Kernel) State() KernelState {
	return KernelState(k.state.Load())
}

// Spawn places a process at the wrapped coordinates and returns its pid
// (the node id of its cell). When the process pool is exhausted the oldest
// live process is evicted; its state becomes unreadable. Owner-goroutine
// only, like Run.
func (k *Kernel) Spawn(x, y, z int32) uint32 {
	c := torus.Wrap(x, y, z)
	pid, evicted, didEvict := k.procs.spawn(c)
	if didEvict && k.logger != nil {
		k.logger.Debug("process pool full, evicted oldest",
			zap.Uint32("evicted_pid", evicted),
			zap.Uint32("new_pid", pid),
		)
	}
	return pid
}

// Inject stages an event targeting the wrapped coordinates with the current
// logical time. Safe to call from any goroutine, including while Run is
// draining; the scheduler alone moves staged events into the live heap.
// Returns foundation.ErrFull when the staging buffer is at capacity.
func (k *Kernel) Inject(x, y, z int32, value int64) error {
	c := torus.Wrap(x, y, z)
	node := c.Index()
	return k.staging.Put(Event{
		Time:   k.currentTime.Load(),
		Node:   node,
		Source: node,
		Value:  value,
		seq:    k.seq.Add(1),
	})
}

// Run drains up to maxEvents events in timestamp order and returns the count
// actually processed. Staged injections are flushed once at the top of the
// batch. A Run racing another Run on the same instance is refused and
// processes nothing.
func (k *Kernel) Run(maxEvents int) int {
	if maxEvents <= 0 {
		return 0
	}
	if !k.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		if k.logger != nil {
			k.logger.Warn("run refused, kernel already running", zap.String("id", k.id))
		}
		return 0
	}
	defer k.state.Store(int32(StateIdle))

	k.flushStaging()

	processed := 0
	for processed < maxEvents {
		ev, err := k.ready.Pop()
		if err != nil {
			break
		}
		k.dispatch(ev)
		processed++
	}
	if processed > 0 {
		_ = k.history.Push(k.GetTelemetry())
	}
	return processed
}

// flushStaging moves staged events into the ready queue, taking at most as
// many as the heap has room for; the rest stay staged for the next batch, so
// a full heap backs pressure up into the staging buffer and from there to
// Inject's ErrFull instead of losing accepted events. Timestamps are clamped
// to the current clock so that events staged before the clock moved on
// cannot drag dispatch time backwards.
func (k *Kernel) flushStaging() {
	room := k.ready.Cap() - k.ready.Len()
	if room <= 0 {
		return
	}
	now := k.currentTime.Load()
	k.staging.DrainUpTo(room, func(ev Event) {
		if ev.Time < now {
			ev.Time = now
		}
		if err := k.ready.Push(ev); err != nil {
			k.flushDrops.Add(1)
		}
	})
}

// dispatch advances the clock to the event's timestamp, folds the payload
// into the target process, and enqueues whatever the propagation policy
// returns. Capacity overflow drops follow-ups silently apart from counters;
// the run must never pay for error propagation on this path.
func (k *Kernel) dispatch(ev Event) {
	k.currentTime.Store(ev.Time)

	var state int64
	if p := k.procs.lookup(ev.Node); p != nil {
		p.State = k.config.Combine.apply(p.State, ev.Value)
		state = p.State
	}

	if k.config.Propagate != nil {
		target := ev.Target()
		for _, f := range k.config.Propagate(ev, target, state) {
			next := torus.Wrap(f.Target.X, f.Target.Y, f.Target.Z)
			follow := Event{
				Time:   ev.Time + f.Delay,
				Node:   next.Index(),
				Source: ev.Node,
				Value:  f.Value,
				seq:    k.seq.Add(1),
			}
			if err := k.ready.Push(follow); err != nil {
				k.followupDrops.Add(1)
			}
		}
	}

	k.eventsProcessed.Add(1)
}

// Reset restores the just-constructed logical state (empty queues, zeroed
// clock and counters) without reallocating any pool. Refused while running.
func (k *Kernel) Reset() error {
	if !k.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrBusy
	}
	defer k.state.Store(int32(StateIdle))

	k.ready.Clear()
	k.staging.Clear()
	k.procs.reset()
	k.history.Clear()
	k.currentTime.Store(0)
	k.eventsProcessed.Store(0)
	k.seq.Store(0)
	k.followupDrops.Store(0)
	k.flushDrops.Store(0)

	if k.logger != nil {
		k.logger.Info("kernel reset", zap.String("id", k.id))
	}
	return nil
}

// EventsProcessed returns the cumulative dispatched-event count. Monotonic;
// mid-run reads may lag the loop but never exceed it.
func (k *Kernel) EventsProcessed() uint64 {
	return k.eventsProcessed.Load()
}

// CurrentTime returns the logical clock: the timestamp of the most recently
// dispatched event.
func (k *Kernel) CurrentTime() uint64 {
	return k.currentTime.Load()
}

// ProcessCount returns the number of live processes, capped at the pool
// capacity by the eviction policy.
func (k *Kernel) ProcessCount() int {
	return k.procs.liveCount()
}

// ProcessState returns the accumulated state of pid. Unknown, out-of-range
// and evicted pids read as zero. Exact between runs; eventually consistent
// if read mid-run.
func (k *Kernel) ProcessState(pid uint32) int64 {
	return k.procs.state(pid)
}

// MemoryUsed returns the fixed pool footprint in bytes. Constant for the
// lifetime of the instance.
func (k *Kernel) MemoryUsed() uint64 { return k.memoryUsed }

// GetTelemetry returns the deterministic counter snapshot.
func (k *Kernel) GetTelemetry() Telemetry {
	return Telemetry{
		EventsProcessed: k.eventsProcessed.Load(),
		CurrentTime:     k.currentTime.Load(),
		ProcessCount:    uint64(k.procs.liveCount()),
		MemoryUsed:      k.memoryUsed,
	}
}

// History returns the retained per-batch telemetry snapshots, oldest first.
// At most historyDepth entries are kept; older batches are overwritten.
// Owner-goroutine only.
func (k *Kernel) History() []Telemetry {
	out := make([]Telemetry, 0, k.history.Len())
	for i := 0; i < k.history.Len(); i++ {
		if t, ok := k.history.At(i); ok {
			out = append(out, t)
		}
	}
	return out
}

// GetStats returns telemetry plus capacity-pressure counters.
func (k *Kernel) GetStats() Stats {
	return Stats{
		Telemetry:        k.GetTelemetry(),
		InjectedDropped:  k.staging.Dropped() + k.flushDrops.Load(),
		FollowupsDropped: k.followupDrops.Load(),
		ProcessEvictions: k.procs.evictions.Load(),
		ReadyDepth:       k.ready.Len(),
		StagedDepth:      k.staging.Len(),
	}
}
