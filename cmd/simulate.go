package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhail/dispatchd/app"
	"github.com/openhail/dispatchd/config"
	"github.com/openhail/dispatchd/infra/logger"
	"github.com/openhail/dispatchd/simulator"
)

var (
	simCount       int
	simAcceptDelay time.Duration
	simStepDelay   time.Duration
	simDropRate    float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the service with an in-process fleet of simulated drivers",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simCount, "drivers", 10, "number of simulated drivers")
	simulateCmd.Flags().DurationVar(&simAcceptDelay, "accept-delay", 50*time.Millisecond, "delay before a driver tries to accept")
	simulateCmd.Flags().DurationVar(&simStepDelay, "step-delay", time.Second, "delay between ride status reports")
	simulateCmd.Flags().Float64Var(&simDropRate, "drop-rate", 0, "probability a driver ignores a booking")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Simulated drivers live in-process and need the local event bus.
	cfg.MQTT.Enabled = false

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("simulate").Errorf("service close: %v", err)
		}
	}()

	fleet := simulator.NewFleet(simulator.Config{
		Count:       simCount,
		AcceptDelay: simAcceptDelay,
		StepDelay:   simStepDelay,
		DropRate:    simDropRate,
	})
	if err := fleet.Start(ctx, svc.Engine, svc.Registry, svc.Bus()); err != nil {
		return fmt.Errorf("start fleet: %w", err)
	}
	logger.New("simulate").Infof("fleet of %d simulated drivers running", fleet.Size())

	err = svc.Run(ctx)
	fleet.Wait()
	return err
}
