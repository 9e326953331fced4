package compute

// Telemetry is the deterministic counter snapshot exposed to bindings. The
// field set matches the external ABI; MemoryUsed is fixed at construction,
// which is the memory-boundedness claim in observable form.
type Telemetry struct {
	EventsProcessed uint64 `cbor:"events_processed" json:"events_processed"`
	CurrentTime     uint64 `cbor:"current_time" json:"current_time"`
	ProcessCount    uint64 `cbor:"process_count" json:"process_count"`
	MemoryUsed      uint64 `cbor:"memory_used" json:"memory_used"`
}

// Stats extends Telemetry with capacity-pressure counters. Eviction and drop
// policies are silent in steady state; these counters are the only way to
// observe them.
type Stats struct {
	Telemetry

	InjectedDropped  uint64 `cbor:"injected_dropped" json:"injected_dropped"`
	FollowupsDropped uint64 `cbor:"followups_dropped" json:"followups_dropped"`
	ProcessEvictions uint64 `cbor:"process_evictions" json:"process_evictions"`
	ReadyDepth       int    `cbor:"ready_depth" json:"ready_depth"`
	StagedDepth      int    `cbor:"staged_depth" json:"staged_depth"`
}
