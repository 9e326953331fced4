package foundation

import "errors"

// ErrNoOrdering is a construction-time error: a heap cannot exist without
// its ordering function.
var ErrNoOrdering = errors.New("foundation: heap ordering function required")

// MinHeap is a fixed-capacity binary min-heap; the kernel uses it as the
// event ready queue keyed by logical timestamp. Ordering is supplied at
// construction so the element type stays opaque to this package. Ties must
// be broken by the caller's less function (the kernel uses injection
// sequence) to keep extraction deterministic.
type MinHeap[T any] struct {
	items []T
	size  int
	less  func(a, b T) bool

	pushed  uint64
	popped  uint64
	dropped uint64
}

// NewMinHeap creates a heap with the given fixed capacity and strict
// ordering function.
func NewMinHeap[T any](capacity int, less func(a, b T) bool) (*MinHeap[T], error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}
	if less == nil {
		return nil, ErrNoOrdering
	}
	return &MinHeap[T]{items: make([]T, capacity), less: less}, nil
}

// Push inserts an item in O(log capacity), or returns ErrFull at capacity.
func (h *MinHeap[T]) Push(item T) error {
	if h.size == len(h.items) {
		h.dropped++
		return ErrFull
	}
	h.items[h.size] = item
	h.siftUp(h.size)
	h.size++
	h.pushed++
	return nil
}

// Pop removes and returns the minimum item in O(log capacity).
func (h *MinHeap[T]) Pop() (T, error) {
	var zero T
	if h.size == 0 {
		return zero, ErrEmpty
	}
	top := h.items[0]
	h.size--
	h.items[0] = h.items[h.size]
	h.items[h.size] = zero
	if h.size > 0 {
		h.siftDown(0)
	}
	h.popped++
	return top, nil
}

// Peek returns the minimum item without removing it.
func (h *MinHeap[T]) Peek() (T, bool) {
	var zero T
	if h.size == 0 {
		return zero, false
	}
	return h.items[0], true
}

// Len returns the current element count.
func (h *MinHeap[T]) Len() int { return h.size }

// Cap returns the fixed capacity.
func (h *MinHeap[T]) Cap() int { return len(h.items) }

// Dropped returns how many pushes were rejected at capacity.
func (h *MinHeap[T]) Dropped() uint64 { return h.dropped }

// Clear drops all elements without releasing the backing array.
func (h *MinHeap[T]) Clear() {
	var zero T
	for i := 0; i < h.size; i++ {
		h.items[i] = zero
	}
	h.size = 0
}

func (h *MinHeap[T]) siftUp(i int) {
	item := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(item, h.items[parent]) {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = item
}

func (h *MinHeap[T]) siftDown(i int) {
	item := h.items[i]
	half := h.size / 2
	for i < half {
		child := 2*i + 1
		if right := child + 1; right < h.size && h.less(h.items[right], h.items[child]) {
			child = right
		}
		if !h.less(h.items[child], item) {
			break
		}
		h.items[i] = h.items[child]
		i = child
	}
	h.items[i] = item
}
