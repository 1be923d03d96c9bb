// Package simulator runs a fleet of in-process drivers against the dispatch
// engine. Drivers listen on the broadcast channel, race to accept new
// bookings, and walk accepted rides through a status sequence. It exists for
// load demos and for exercising the accept race end to end.
package simulator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/openhail/dispatchd/core/dispatch"
	"github.com/openhail/dispatchd/core/events"
	"github.com/openhail/dispatchd/core/model"
	"github.com/openhail/dispatchd/core/pubsub"
	"github.com/openhail/dispatchd/infra/logger"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))
var rngMu sync.Mutex

// rideStatuses is the sequence a simulated driver reports after winning a
// booking. The last entry is terminal and frees the driver for the next ride.
var rideStatuses = []model.Status{"EnRoute", "Arrived", "InProgress", model.StatusCompleted}

// SimulatedDriver races for bookings announced on the broadcast channel.
type SimulatedDriver struct {
	ID          string
	Handle      model.Handle
	AcceptDelay time.Duration
	StepDelay   time.Duration
	DropRate    float64

	log logger.Logger
}

// Run subscribes to new-booking broadcasts and serves rides until ctx is
// done. The driver must already be registered with the engine's registry.
func (d *SimulatedDriver) Run(ctx context.Context, engine *dispatch.Engine, sub pubsub.Subscriber) error {
	if d.log == nil {
		d.log = logger.New("sim-" + d.ID)
	}
	ch, err := sub.Subscribe(events.AllDrivers())
	if err != nil {
		return err
	}
	defer sub.Unsubscribe(events.AllDrivers(), ch)
	d.serve(ctx, engine, ch)
	return nil
}

// serve consumes the already-subscribed broadcast channel.
func (d *SimulatedDriver) serve(ctx context.Context, engine *dispatch.Engine, ch <-chan any) {
	if d.log == nil {
		d.log = logger.New("sim-" + d.ID)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			nb, ok := ev.(events.NewBooking)
			if !ok {
				continue
			}
			d.handleBooking(ctx, engine, nb.Booking)
		}
	}
}

func (d *SimulatedDriver) handleBooking(ctx context.Context, engine *dispatch.Engine, b model.Booking) {
	if d.DropRate > 0 {
		rngMu.Lock()
		drop := rng.Float64() < d.DropRate
		rngMu.Unlock()
		if drop {
			return
		}
	}
	if !d.sleep(ctx, d.AcceptDelay) {
		return
	}
	if _, err := engine.AcceptBooking(d.ID, b.ID); err != nil {
		// Lost the race, wait for the next broadcast.
		return
	}
	d.log.Infof("won booking %d", b.ID)
	loc := model.Location{Lat: b.Pickup, Lng: b.Pickup}
	for _, status := range rideStatuses {
		if !d.sleep(ctx, d.StepDelay) {
			return
		}
		if _, err := engine.ReportStatus(d.ID, status, loc); err != nil {
			d.log.Errorf("report %s for booking %d: %v", status, b.ID, err)
			return
		}
		loc.Lat, loc.Lng = b.Dropoff, b.Dropoff
	}
}

func (d *SimulatedDriver) sleep(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return true
	}
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}
