package demo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/betti-labs/betti-rdl/kernel/compute"
	"github.com/betti-labs/betti-rdl/kernel/torus"
)

// SIR-style contagion over the Moore neighborhood. A population block is
// spawned around the lattice origin, one infection event is injected at the
// center, and the viral load decays by one per hop: cells within
// (load - 1) Chebyshev steps of the center end up infected.

// ContagionResult reports an outbreak.
type ContagionResult struct {
	Population      int
	Infected        int
	EventsProcessed uint64
	FinalTime       uint64
	EventsDropped   uint64
}

// RunContagion spawns a side^3 population block, injects a single infection
// with the given viral load at the block's center, and drains the outbreak.
func RunContagion(side int32, load int64, logger *zap.Logger) (ContagionResult, error) {
	if side < 1 || side > torus.Size {
		return ContagionResult{}, fmt.Errorf("demo: population side must be in [1,%d], got %d", torus.Size, side)
	}
	if load < 1 {
		return ContagionResult{}, fmt.Errorf("demo: viral load must be positive, got %d", load)
	}

	population := int(side) * int(side) * int(side)

	cfg := compute.DefaultConfig()
	cfg.ProcessCapacity = population
	cfg.Propagate = compute.BroadcastPropagation()
	cfg.Logger = logger

	k, err := compute.New(cfg)
	if err != nil {
		return ContagionResult{}, err
	}

	for x := int32(0); x < side; x++ {
		for y := int32(0); y < side; y++ {
			for z := int32(0); z < side; z++ {
				k.Spawn(x, y, z)
			}
		}
	}

	center := side / 2
	if err := k.Inject(center, center, center, load); err != nil {
		return ContagionResult{}, err
	}

	for k.Run(4096) > 0 {
	}

	infected := 0
	for x := int32(0); x < side; x++ {
		for y := int32(0); y < side; y++ {
			for z := int32(0); z < side; z++ {
				if k.ProcessState(torus.Wrap(x, y, z).Index()) > 0 {
					infected++
				}
			}
		}
	}

	stats := k.GetStats()
	return ContagionResult{
		Population:      population,
		Infected:        infected,
		EventsProcessed: k.EventsProcessed(),
		FinalTime:       k.CurrentTime(),
		EventsDropped:   stats.FollowupsDropped,
	}, nil
}
