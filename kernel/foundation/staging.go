package foundation

import "sync"

// Staging is the thread-safe ingress buffer between injector threads and the
// single-threaded scheduler. Injection only ever touches this buffer under
// its lock; the scheduler alone mutates the live heap, draining the staging
// buffer at the start of each run batch. Capacity pressure is reported to
// the injector with ErrFull and counted, never resolved by growth.
type Staging[T any] struct {
	mu   sync.Mutex
	ring *Ring[T]
}

// NewStaging creates a staging buffer with the given fixed capacity.
func NewStaging[T any](capacity int) (*Staging[T], error) {
	ring, err := NewRing[T](capacity)
	if err != nil {
		return nil, err
	}
	return &Staging[T]{ring: ring}, nil
}

// Put stages an item. Safe to call from any goroutine, including while the
// scheduler is draining.
func (s *Staging[T]) Put(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.Enqueue(item)
}

// Drain hands every staged item to fn in staging order, then empties the
// buffer. The lock is held for the whole drain so items staged concurrently
// land in the next batch; fn must not call back into the buffer.
func (s *Staging[T]) Drain(fn func(T)) int {
	return s.DrainUpTo(-1, fn)
}

// DrainUpTo hands at most max staged items to fn in staging order, removing
// only what it hands over; anything past max stays staged for the next
// batch. A negative max means no limit. Returns the number drained.
func (s *Staging[T]) DrainUpTo(max int, fn func(T)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.ring.Len()
	if max >= 0 && n > max {
		n = max
	}
	for i := 0; i < n; i++ {
		item, err := s.ring.Dequeue()
		if err != nil {
			return i
		}
		fn(item)
	}
	return n
}

// Len returns the currently staged item count.
func (s *Staging[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.Len()
}

// Cap returns the fixed capacity.
func (s *Staging[T]) Cap() int { return s.ring.Cap() }

// Dropped returns how many puts were rejected at capacity.
func (s *Staging[T]) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.GetStats().Dropped
}

// GetStats returns a copy of the underlying queue counters.
func (s *Staging[T]) GetStats() QueueStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.GetStats()
}

// Clear empties the buffer without releasing the backing array.
func (s *Staging[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring.Clear()
}
