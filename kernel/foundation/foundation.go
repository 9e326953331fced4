// Package foundation provides the fixed-capacity containers the kernel is
// built on: vector, FIFO ring, timestamp min-heap, and a mutex-guarded
// staging buffer for cross-thread event injection. Every container allocates
// its full backing array at construction and never grows; capacity pressure
// is reported through return values, never through reallocation.
package foundation

import "errors"

var (
	// ErrFull signals a capacity-exceeded condition. How to resolve it
	// (drop, overwrite oldest, reject) is caller policy.
	ErrFull = errors.New("foundation: container full")

	// ErrEmpty signals a take from an empty container.
	ErrEmpty = errors.New("foundation: container empty")

	// ErrZeroCapacity is a construction-time configuration error.
	ErrZeroCapacity = errors.New("foundation: capacity must be positive")
)
