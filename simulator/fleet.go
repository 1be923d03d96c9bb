package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openhail/dispatchd/core/dispatch"
	"github.com/openhail/dispatchd/core/events"
	"github.com/openhail/dispatchd/core/model"
	"github.com/openhail/dispatchd/core/pubsub"
	"github.com/openhail/dispatchd/core/registry"
)

// Config holds parameters for bulk fleet generation.
type Config struct {
	Count       int
	AcceptDelay time.Duration
	StepDelay   time.Duration
	DropRate    float64
}

// GenerateFleet creates Count drivers with IDs drv0001..drvNNNN.
func GenerateFleet(cfg Config) []*SimulatedDriver {
	if cfg.Count <= 0 {
		return nil
	}
	drivers := make([]*SimulatedDriver, cfg.Count)
	for i := range drivers {
		id := fmt.Sprintf("drv%04d", i+1)
		drivers[i] = &SimulatedDriver{
			ID:          id,
			Handle:      model.Handle("sim-" + id),
			AcceptDelay: cfg.AcceptDelay,
			StepDelay:   cfg.StepDelay,
			DropRate:    cfg.DropRate,
		}
	}
	return drivers
}

// Fleet registers and runs a set of simulated drivers.
type Fleet struct {
	drivers []*SimulatedDriver
	wg      sync.WaitGroup
}

// NewFleet builds a fleet from the config.
func NewFleet(cfg Config) *Fleet {
	return &Fleet{drivers: GenerateFleet(cfg)}
}

// Start registers every driver with the registry and launches its run loop.
// Every driver is subscribed before Start returns, so bookings requested
// afterwards are guaranteed to reach the whole fleet.
func (f *Fleet) Start(ctx context.Context, engine *dispatch.Engine, reg *registry.Registry, sub pubsub.Subscriber) error {
	for _, d := range f.drivers {
		reg.RegisterDriver(d.ID, d.Handle)
		ch, err := sub.Subscribe(events.AllDrivers())
		if err != nil {
			return err
		}
		f.wg.Add(1)
		go func(d *SimulatedDriver, ch <-chan any) {
			defer f.wg.Done()
			defer sub.Unsubscribe(events.AllDrivers(), ch)
			d.serve(ctx, engine, ch)
		}(d, ch)
	}
	return nil
}

// Wait blocks until every driver loop has exited.
func (f *Fleet) Wait() { f.wg.Wait() }

// Size reports the number of drivers in the fleet.
func (f *Fleet) Size() int { return len(f.drivers) }
