// Package bridge exposes the kernel through integer handles, mirroring the C
// surface the language bindings consume (create/destroy/spawn/inject/run/
// query). Handle lifecycle discipline is the caller's: operations on a
// destroyed handle are answered with zero values, never a crash, matching
// the null-tolerant behavior of the original shim.
package bridge

import (
	"sync"

	"github.com/betti-labs/betti-rdl/kernel/compute"
)

// Handle identifies a kernel instance across the binding boundary. Zero is
// never a valid handle.
type Handle uint64

var (
	mu      sync.RWMutex
	kernels = make(map[Handle]*compute.Kernel)
	nextID  Handle
)

// Create constructs a kernel with default configuration and returns its
// handle, or zero when construction fails.
func Create() Handle {
	return CreateWithConfig(compute.DefaultConfig())
}

// CreateWithConfig constructs a kernel with the given configuration.
// Configuration errors yield handle zero; no partial kernel is registered.
func CreateWithConfig(config compute.Config) Handle {
	k, err := compute.New(config)
	if err != nil {
		return 0
	}

	mu.Lock()
	defer mu.Unlock()
	nextID++
	kernels[nextID] = k
	return nextID
}

// Destroy releases a kernel. All pool memory goes with it atomically.
// Destroying an unknown or already destroyed handle is a no-op.
func Destroy(h Handle) {
	mu.Lock()
	defer mu.Unlock()
	delete(kernels, h)
}

func lookup(h Handle) *compute.Kernel {
	mu.RLock()
	defer mu.RUnlock()
	return kernels[h]
}

// SpawnProcess spawns a process at (x, y, z), wrapped onto the lattice, and
// returns its pid. Returns -1 for an invalid handle.
func SpawnProcess(h Handle, x, y, z int32) int64 {
	k := lookup(h)
	if k == nil {
		return -1
	}
	return int64(k.Spawn(x, y, z))
}

// InjectEvent stages an event at (x, y, z) carrying value. Capacity
// rejection is silent here, as in the C API; consult telemetry counters.
func InjectEvent(h Handle, x, y, z int32, value int64) {
	if k := lookup(h); k != nil {
		_ = k.Inject(x, y, z, value)
	}
}

// Run processes up to maxEvents events and returns the count processed.
func Run(h Handle, maxEvents int) int {
	k := lookup(h)
	if k == nil {
		return 0
	}
	return k.Run(maxEvents)
}

// GetEventsProcessed returns the cumulative dispatched-event count.
func GetEventsProcessed(h Handle) uint64 {
	k := lookup(h)
	if k == nil {
		return 0
	}
	return k.EventsProcessed()
}

// GetCurrentTime returns the kernel's logical clock.
func GetCurrentTime(h Handle) uint64 {
	k := lookup(h)
	if k == nil {
		return 0
	}
	return k.CurrentTime()
}

// GetProcessCount returns the live process count.
func GetProcessCount(h Handle) int {
	k := lookup(h)
	if k == nil {
		return 0
	}
	return k.ProcessCount()
}

// GetProcessState returns the accumulated state of pid, zero when absent.
func GetProcessState(h Handle, pid int32) int64 {
	k := lookup(h)
	if k == nil || pid < 0 {
		return 0
	}
	return k.ProcessState(uint32(pid))
}

// GetTelemetry returns the deterministic counter snapshot.
func GetTelemetry(h Handle) compute.Telemetry {
	k := lookup(h)
	if k == nil {
		return compute.Telemetry{}
	}
	return k.GetTelemetry()
}

// Reset clears a kernel's logical state without reallocating pools.
func Reset(h Handle) error {
	k := lookup(h)
	if k == nil {
		return nil
	}
	return k.Reset()
}
