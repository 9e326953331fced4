package compute

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Default pool capacities. These mirror the reference kernel build and bound
// the entire memory footprint of an instance; they are construction-time
// constants, never runtime limits that grow.
const (
	DefaultEventCapacity   = 4096
	DefaultProcessCapacity = 2048
	DefaultStagingCapacity = 16384
)

// ErrInvalidConfig marks construction-time configuration errors. No partial
// kernel is ever returned alongside it.
var ErrInvalidConfig = errors.New("compute: invalid kernel config")

// Config sizes the kernel's fixed pools and selects its dispatch policies.
type Config struct {
	// EventCapacity bounds the ready queue (min-heap). Follow-ups that
	// overflow it are dropped and counted, never grown into.
	EventCapacity int

	// ProcessCapacity bounds the process table. Exhaustion evicts the
	// oldest live process.
	ProcessCapacity int

	// StagingCapacity bounds the thread-safe injection buffer drained at
	// the start of each run batch.
	StagingCapacity int

	// Combine folds event payloads into process state. Zero value is
	// additive accumulation.
	Combine CombineRule

	// Propagate produces follow-up events per dispatch; nil means events
	// terminate at their target.
	Propagate PropagationFunc

	// Logger receives lifecycle and capacity diagnostics. Nil disables
	// logging entirely.
	Logger *zap.Logger
}

// DefaultConfig returns the reference capacities with additive combining and
// no propagation.
func DefaultConfig() Config {
	return Config{
		EventCapacity:   DefaultEventCapacity,
		ProcessCapacity: DefaultProcessCapacity,
		StagingCapacity: DefaultStagingCapacity,
		Combine:         CombineAdd,
	}
}

func (c Config) validate() error {
	if c.EventCapacity <= 0 {
		return fmt.Errorf("%w: event capacity %d", ErrInvalidConfig, c.EventCapacity)
	}
	if c.ProcessCapacity <= 0 {
		return fmt.Errorf("%w: process capacity %d", ErrInvalidConfig, c.ProcessCapacity)
	}
	if c.StagingCapacity <= 0 {
		return fmt.Errorf("%w: staging capacity %d", ErrInvalidConfig, c.StagingCapacity)
	}
	if !c.Combine.valid() {
		return fmt.Errorf("%w: combine rule %d", ErrInvalidConfig, int(c.Combine))
	}
	return nil
}
