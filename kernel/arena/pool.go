package arena

import (
	"errors"
	"fmt"
)

// Fixed-slot pool allocator. All slot storage is sized once at construction;
// nothing grows afterwards. When the free list is empty, Acquire evicts the
// least-recently-acquired live slot instead of allocating, which is what
// keeps kernel memory constant under unbounded logical recursion.

var (
	// ErrZeroCapacity is returned when a pool is constructed with no slots.
	// This is a configuration error, not a runtime condition.
	ErrZeroCapacity = errors.New("arena: pool capacity must be positive")
)

// NilSlot marks "no slot" in returns and internal links.
const NilSlot int32 = -1

// Stats tracks pool activity. Evicted counts slots reclaimed from live use
// because the free list was empty.
type Stats struct {
	Acquired uint64
	Released uint64
	Evicted  uint64
}

// Pool hands out fixed slot indices in [0, capacity). Callers own the typed
// storage for each slot; the pool only tracks slot lifecycle and the
// eviction order. Not safe for concurrent use; the owning kernel serializes
// access.
type Pool struct {
	capacity int32
	slotSize int

	// Intrusive links. next doubles as the free-list chain for free slots
	// and the younger-neighbor link for live slots.
	next []int32
	prev []int32
	live []bool

	freeHead int32
	oldest   int32 // head of the live list, first to be evicted
	newest   int32
	inUse    int32

	stats Stats
}

// NewPool creates a pool of capacity slots of slotSize bytes each. The slot
// size is bookkeeping only (reported via ArenaBytes); the caller allocates
// the backing storage once, next to the pool.
func NewPool(capacity, slotSize int) (*Pool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrZeroCapacity, capacity)
	}
	p := &Pool{
		capacity: int32(capacity),
		slotSize: slotSize,
		next:     make([]int32, capacity),
		prev:     make([]int32, capacity),
		live:     make([]bool, capacity),
	}
	p.Reset()
	return p, nil
}

// Acquire returns a slot index, and the slot that was evicted to satisfy the
// request (NilSlot if none). Callers must treat previously returned indices
// equal to evicted as invalid: their storage is about to be overwritten.
func (p *Pool) Acquire() (slot, evicted int32) {
	evicted = NilSlot
	if p.freeHead != NilSlot {
		slot = p.freeHead
		p.freeHead = p.next[slot]
	} else {
		// Free list exhausted: reuse the oldest live slot.
		slot = p.oldest
		p.unlink(slot)
		p.inUse--
		evicted = slot
		p.stats.Evicted++
	}

	p.appendLive(slot)
	p.inUse++
	p.stats.Acquired++
	return slot, evicted
}

// Release returns a slot to the free list. Releasing a slot that is not live
// is a no-op; the pool does not distinguish double release from release of
// an already-evicted slot.
func (p *Pool) Release(slot int32) {
	if slot < 0 || slot >= p.capacity || !p.live[slot] {
		return
	}
	p.unlink(slot)
	p.next[slot] = p.freeHead
	p.freeHead = slot
	p.inUse--
	p.stats.Released++
}

// Touch moves a live slot to the back of the eviction order, making it the
// most recently acquired.
func (p *Pool) Touch(slot int32) {
	if slot < 0 || slot >= p.capacity || !p.live[slot] {
		return
	}
	p.unlink(slot)
	p.appendLive(slot)
}

// Reset restores the just-constructed state (full free list) without
// releasing any backing storage. Counters survive so telemetry stays
// cumulative across kernel reuse.
func (p *Pool) Reset() {
	for i := int32(0); i < p.capacity; i++ {
		p.next[i] = i + 1
		p.prev[i] = NilSlot
		p.live[i] = false
	}
	p.next[p.capacity-1] = NilSlot
	p.freeHead = 0
	p.oldest = NilSlot
	p.newest = NilSlot
	p.inUse = 0
}

// Oldest returns the slot next in line for eviction, or NilSlot.
func (p *Pool) Oldest() int32 { return p.oldest }

// Live reports whether slot currently holds an acquired allocation.
func (p *Pool) Live(slot int32) bool {
	return slot >= 0 && slot < p.capacity && p.live[slot]
}

// InUse returns the number of live slots.
func (p *Pool) InUse() int { return int(p.inUse) }

// Capacity returns the fixed slot count.
func (p *Pool) Capacity() int { return int(p.capacity) }

// ArenaBytes returns the fixed backing-storage footprint this pool manages.
func (p *Pool) ArenaBytes() uint64 {
	return uint64(p.capacity) * uint64(p.slotSize)
}

// GetStats returns a copy of the activity counters.
func (p *Pool) GetStats() Stats { return p.stats }

// appendLive links slot at the tail of the live list and marks it live.
func (p *Pool) appendLive(slot int32) {
	p.prev[slot] = p.newest
	p.next[slot] = NilSlot
	if p.newest != NilSlot {
		p.next[p.newest] = slot
	} else {
		p.oldest = slot
	}
	p.newest = slot
	p.live[slot] = true
}

// unlink removes a live slot from the eviction list.
func (p *Pool) unlink(slot int32) {
	if p.prev[slot] != NilSlot {
		p.next[p.prev[slot]] = p.next[slot]
	} else {
		p.oldest = p.next[slot]
	}
	if p.next[slot] != NilSlot {
		p.prev[p.next[slot]] = p.prev[slot]
	} else {
		p.newest = p.prev[slot]
	}
	p.prev[slot] = NilSlot
	p.next[slot] = NilSlot
	p.live[slot] = false
}
