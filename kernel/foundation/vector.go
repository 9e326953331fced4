package foundation

// Vector is a fixed-capacity append-only slice. Push past capacity either
// fails with ErrFull or, with overwrite enabled, recycles the oldest entry,
// which keeps unbounded event chains bounded.
type Vector[T any] struct {
	items     []T
	length    int
	start     int // first logical element when overwriting has wrapped
	overwrite bool

	overwritten uint64
}

// NewVector creates a vector with the given fixed capacity.
func NewVector[T any](capacity int) (*Vector[T], error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}
	return &Vector[T]{items: make([]T, capacity)}, nil
}

// SetOverwrite selects the overwrite-oldest policy for pushes past capacity.
func (v *Vector[T]) SetOverwrite(enabled bool) { v.overwrite = enabled }

// Push appends an item. Returns ErrFull when at capacity and overwriting is
// disabled; with overwriting enabled the oldest item is replaced instead.
func (v *Vector[T]) Push(item T) error {
	if v.length == len(v.items) {
		if !v.overwrite {
			return ErrFull
		}
		v.items[v.start] = item
		v.start = (v.start + 1) % len(v.items)
		v.overwritten++
		return nil
	}
	v.items[(v.start+v.length)%len(v.items)] = item
	v.length++
	return nil
}

// Pop removes and returns the most recently pushed item.
func (v *Vector[T]) Pop() (T, error) {
	var zero T
	if v.length == 0 {
		return zero, ErrEmpty
	}
	v.length--
	idx := (v.start + v.length) % len(v.items)
	item := v.items[idx]
	v.items[idx] = zero
	return item, nil
}

// At returns the item at logical index i (0 is the oldest).
func (v *Vector[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= v.length {
		return zero, false
	}
	return v.items[(v.start+i)%len(v.items)], true
}

// Len returns the current element count.
func (v *Vector[T]) Len() int { return v.length }

// Cap returns the fixed capacity.
func (v *Vector[T]) Cap() int { return len(v.items) }

// Overwritten returns how many items were lost to the overwrite policy.
func (v *Vector[T]) Overwritten() uint64 { return v.overwritten }

// Clear drops all elements without releasing the backing array.
func (v *Vector[T]) Clear() {
	var zero T
	for i := range v.items {
		v.items[i] = zero
	}
	v.length = 0
	v.start = 0
}
