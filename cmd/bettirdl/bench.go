package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/betti-labs/betti-rdl/kernel/compute"
	"github.com/betti-labs/betti-rdl/kernel/torus"
	"github.com/betti-labs/betti-rdl/kernel/utils"
)

func newBenchCmd() *cobra.Command {
	var (
		events int
		batch  int
		width  int32
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Stress the scheduler with chained events",
		Long: `bench spawns a row of processes along the x axis and drives chained
events through them until the requested event count is reached. Interrupt
with SIGINT to stop early; final telemetry is printed either way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if batch < 1 || events < 1 {
				return fmt.Errorf("bench: events and batch must be positive")
			}
			if width < 1 || width > torus.Size {
				return fmt.Errorf("bench: width must be in [1,%d]", torus.Size)
			}

			cfg := kernelConfig()
			cfg.Propagate = compute.ChainPropagation(width)
			k, err := compute.New(cfg)
			if err != nil {
				return err
			}

			for x := int32(0); x < width; x++ {
				k.Spawn(x, 0, 0)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown := utils.NewGracefulShutdown(5*time.Second, logger)
			shutdown.Register(func() error {
				printTelemetry(k.GetTelemetry())
				return nil
			})

			start := time.Now()
			total := 0
		loop:
			for total < events {
				select {
				case <-ctx.Done():
					logger.Warn("interrupted", zap.Int("events", total))
					break loop
				default:
				}

				if err := k.Inject(0, 0, 0, 1); err != nil {
					return err
				}
				total += k.Run(batch)
			}
			elapsed := time.Since(start)

			rate := float64(total) / elapsed.Seconds()
			logger.Info("bench complete",
				zap.Int("events", total),
				zap.Duration("elapsed", elapsed),
				zap.Float64("events_per_sec", rate),
			)

			stats := k.GetStats()
			logger.Info("drops",
				zap.Uint64("injected", stats.InjectedDropped),
				zap.Uint64("followups", stats.FollowupsDropped),
			)
			return shutdown.Shutdown(context.Background())
		},
	}

	cmd.Flags().IntVar(&events, "events", 1_000_000, "total events to dispatch")
	cmd.Flags().IntVar(&batch, "batch", 4096, "events per Run call")
	cmd.Flags().Int32Var(&width, "width", torus.Size, "chain width along the x axis")
	return cmd
}
