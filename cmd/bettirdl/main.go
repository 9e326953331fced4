package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/betti-labs/betti-rdl/kernel/compute"
	"github.com/betti-labs/betti-rdl/kernel/utils"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "bettirdl",
		Short: "Betti-RDL discrete-event kernel workbench",
		Long: `Betti-RDL runs recursive and parallel workloads as discrete events on a
32x32x32 toroidal lattice with a fixed memory footprint. This tool drives
benchmark and demo workloads against the kernel.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zapcore.InfoLevel
			if verbose {
				level = zapcore.DebugLevel
			}
			logger = utils.NewLogger(utils.LoggerConfig{
				Level:       level,
				Component:   "bettirdl",
				Development: true,
			})
			initConfig()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./bettirdl.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newBenchCmd())
	root.AddCommand(newHanoiCmd())
	root.AddCommand(newContagionCmd())
	root.AddCommand(newCounterCmd())
	root.AddCommand(newTelemetryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("kernel.events", compute.DefaultEventCapacity)
	viper.SetDefault("kernel.processes", compute.DefaultProcessCapacity)
	viper.SetDefault("kernel.staging", compute.DefaultStagingCapacity)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bettirdl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("BETTIRDL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("loaded config", zap.String("file", viper.ConfigFileUsed()))
	}
}

// kernelConfig builds a compute.Config from viper-backed settings.
func kernelConfig() compute.Config {
	cfg := compute.DefaultConfig()
	cfg.EventCapacity = viper.GetInt("kernel.events")
	cfg.ProcessCapacity = viper.GetInt("kernel.processes")
	cfg.StagingCapacity = viper.GetInt("kernel.staging")
	cfg.Logger = logger
	return cfg
}

func printTelemetry(t compute.Telemetry) {
	// Same CSV line the binding verification harness parses.
	fmt.Printf("TELEMETRY,%d,%d,%d,%d\n",
		t.EventsProcessed, t.CurrentTime, t.ProcessCount, t.MemoryUsed)
}
