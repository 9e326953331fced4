package foundation

// Ring is a fixed-capacity FIFO queue backed by a circular buffer. It is
// single-goroutine; Staging wraps it with a lock for the cross-thread
// ingress path.
type Ring[T any] struct {
	items []T
	head  int
	tail  int
	size  int

	stats QueueStats
}

// QueueStats tracks ring activity.
type QueueStats struct {
	Enqueued uint64
	Dequeued uint64
	Dropped  uint64
	MaxDepth int
}

// NewRing creates a ring with the given fixed capacity.
func NewRing[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}
	return &Ring[T]{items: make([]T, capacity)}, nil
}

// Enqueue appends an item, or returns ErrFull at capacity.
func (r *Ring[T]) Enqueue(item T) error {
	if r.size == len(r.items) {
		r.stats.Dropped++
		return ErrFull
	}
	r.items[r.tail] = item
	r.tail = (r.tail + 1) % len(r.items)
	r.size++
	r.stats.Enqueued++
	if r.size > r.stats.MaxDepth {
		r.stats.MaxDepth = r.size
	}
	return nil
}

// Dequeue removes and returns the oldest item.
func (r *Ring[T]) Dequeue() (T, error) {
	var zero T
	if r.size == 0 {
		return zero, ErrEmpty
	}
	item := r.items[r.head]
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.size--
	r.stats.Dequeued++
	return item, nil
}

// Peek returns the oldest item without removing it.
func (r *Ring[T]) Peek() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.items[r.head], true
}

// Len returns the current element count.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.items) }

// GetStats returns a copy of the activity counters.
func (r *Ring[T]) GetStats() QueueStats { return r.stats }

// Clear drops all elements without releasing the backing array.
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head = 0
	r.tail = 0
	r.size = 0
}
