package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/betti-labs/betti-rdl/internal/demo"
	"github.com/betti-labs/betti-rdl/kernel/compute"
)

func newHanoiCmd() *cobra.Command {
	var disks int

	cmd := &cobra.Command{
		Use:   "hanoi",
		Short: "Solve Tower of Hanoi as an event chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := demo.SolveHanoi(disks, logger)
			if err != nil {
				return err
			}
			logger.Info("hanoi solved",
				zap.Int("disks", res.Disks),
				zap.Uint64("moves", res.Moves),
				zap.Uint64("events", res.EventsProcessed),
				zap.Uint64("memory_used", res.MemoryUsed),
			)
			fmt.Printf("disks=%d moves=%d events=%d memory=%d\n",
				res.Disks, res.Moves, res.EventsProcessed, res.MemoryUsed)
			return nil
		},
	}

	cmd.Flags().IntVar(&disks, "disks", 10, "number of disks")
	return cmd
}

func newContagionCmd() *cobra.Command {
	var (
		side int32
		load int64
	)

	cmd := &cobra.Command{
		Use:   "contagion",
		Short: "Spread a value through Moore neighborhoods",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := demo.RunContagion(side, load, logger)
			if err != nil {
				return err
			}
			fmt.Printf("population=%d infected=%d events=%d final_time=%d dropped=%d\n",
				res.Population, res.Infected, res.EventsProcessed,
				res.FinalTime, res.EventsDropped)
			return nil
		},
	}

	cmd.Flags().Int32Var(&side, "side", 5, "side length of the populated cube")
	cmd.Flags().Int64Var(&load, "load", 3, "initial viral load at the center")
	return cmd
}

func newCounterCmd() *cobra.Command {
	var (
		kernels    int
		increments int
	)

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Count in parallel across isolated kernels",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := demo.RunDistributedCounter(kernels, increments, logger)
			if err != nil {
				return err
			}
			fmt.Printf("kernels=%d total=%d events=%d\n",
				res.Kernels, res.Total, res.EventTotal)
			return nil
		},
	}

	cmd.Flags().IntVar(&kernels, "kernels", 4, "concurrent kernel instances")
	cmd.Flags().IntVar(&increments, "increments", 100000, "increments per kernel")
	return cmd
}

func newTelemetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "telemetry",
		Short: "Run a single event and print the telemetry CSV line",
		Long: `telemetry spawns one process at the origin, injects one unit event,
drains the queue and prints the TELEMETRY CSV line. Binding harnesses in
other languages parse this output to verify the kernel end to end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := compute.New(kernelConfig())
			if err != nil {
				return err
			}
			k.Spawn(0, 0, 0)
			if err := k.Inject(0, 0, 0, 42); err != nil {
				return err
			}
			k.Run(100)
			printTelemetry(k.GetTelemetry())
			return nil
		},
	}
}
