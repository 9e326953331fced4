package demo

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/betti-labs/betti-rdl/kernel/compute"
)

// Distributed counter across isolated kernels: the parallel scaling model is
// one torus per goroutine, zero shared state. Each kernel accumulates its
// own increments at the origin cell; the aggregate is computed outside the
// kernels after every instance has drained.

// CounterResult reports a parallel counting run.
type CounterResult struct {
	Kernels    int
	PerKernel  []int64
	Total      int64
	EventTotal uint64
}

// RunDistributedCounter runs the given number of kernels concurrently, each
// applying `increments` unit events to its own origin process.
func RunDistributedCounter(kernels, increments int, logger *zap.Logger) (CounterResult, error) {
	if kernels < 1 {
		return CounterResult{}, fmt.Errorf("demo: kernel count must be positive, got %d", kernels)
	}
	if increments < 1 {
		return CounterResult{}, fmt.Errorf("demo: increments must be positive, got %d", increments)
	}

	result := CounterResult{
		Kernels:   kernels,
		PerKernel: make([]int64, kernels),
	}
	events := make([]uint64, kernels)
	errs := make([]error, kernels)

	var wg sync.WaitGroup
	for i := 0; i < kernels; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			cfg := compute.DefaultConfig()
			cfg.Logger = logger
			k, err := compute.New(cfg)
			if err != nil {
				errs[i] = err
				return
			}

			pid := k.Spawn(0, 0, 0)

			// A batch must fit both the staging buffer and the ready heap,
			// or the flush would carry part of it over and the accounting
			// below would drift.
			limit := cfg.StagingCapacity
			if cfg.EventCapacity < limit {
				limit = cfg.EventCapacity
			}

			remaining := increments
			for remaining > 0 {
				batch := remaining
				if batch > limit {
					batch = limit
				}
				for j := 0; j < batch; j++ {
					if err := k.Inject(0, 0, 0, 1); err != nil {
						errs[i] = err
						return
					}
				}

				processed := 0
				for processed < batch {
					n := k.Run(batch - processed)
					if n == 0 {
						break
					}
					processed += n
				}
				if processed != batch {
					errs[i] = fmt.Errorf("demo: kernel %d dropped %d of %d increments", i, batch-processed, batch)
					return
				}
				remaining -= processed
			}

			result.PerKernel[i] = k.ProcessState(pid)
			events[i] = k.EventsProcessed()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return CounterResult{}, err
		}
	}
	for i := 0; i < kernels; i++ {
		result.Total += result.PerKernel[i]
		result.EventTotal += events[i]
	}
	return result, nil
}
