package compute

// KernelState represents the lifecycle state of a kernel instance.
// The scheduler alternates Idle -> Running -> Idle per Run call; there is no
// separate stopped state, the kernel is either draining events or waiting
// for more.
type KernelState int32

const (
	StateIdle KernelState = iota
	StateRunning
)

var stateNames = map[KernelState]string{
	StateIdle:    "IDLE",
	StateRunning: "RUNNING",
}

func (s KernelState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}
