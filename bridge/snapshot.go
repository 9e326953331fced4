package bridge

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/betti-labs/betti-rdl/kernel/compute"
)

// Canonical telemetry snapshots for the cross-language verification harness.
// Bindings on every language decode the same byte string and compare
// counters field by field; CBOR core-deterministic encoding guarantees two
// equal snapshots are byte-identical regardless of which binding produced
// them.

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// EncodeTelemetry serializes a telemetry snapshot deterministically.
func EncodeTelemetry(h Handle) ([]byte, error) {
	return encMode.Marshal(GetTelemetry(h))
}

// DecodeTelemetry parses a snapshot produced by EncodeTelemetry (or by any
// conforming binding).
func DecodeTelemetry(data []byte) (compute.Telemetry, error) {
	var t compute.Telemetry
	err := cbor.Unmarshal(data, &t)
	return t, err
}
