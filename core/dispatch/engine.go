// Package dispatch orchestrates booking creation, driver fan-out, accept
// race resolution, and status propagation. The engine composes the registry,
// the booking store, and the event channel; it is the sole translator of
// store outcomes into caller-facing failures.
package dispatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/openhail/dispatchd/core/booking"
	"github.com/openhail/dispatchd/core/driverstatus"
	"github.com/openhail/dispatchd/core/events"
	"github.com/openhail/dispatchd/core/logger"
	"github.com/openhail/dispatchd/core/metrics"
	"github.com/openhail/dispatchd/core/model"
	"github.com/openhail/dispatchd/core/monitoring"
	"github.com/openhail/dispatchd/core/pubsub"
	"github.com/openhail/dispatchd/core/registry"
)

// Engine is the dispatch core. Each public method is a single fast in-memory
// transaction; event publication is a fire-and-forget side effect that never
// fails the transaction.
type Engine struct {
	registry  *registry.Registry
	bookings  *booking.Store
	publisher pubsub.Publisher
	logger    logger.Logger
	sink      metrics.BookingSink
	board     driverstatus.Store
}

// NewEngine creates an Engine. publisher must be non-nil; sink may be nil in
// which case no lifecycle metrics are recorded.
func NewEngine(reg *registry.Registry, store *booking.Store, pub pubsub.Publisher, log logger.Logger, sink metrics.BookingSink) (*Engine, error) {
	if reg == nil || store == nil || pub == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewEngine")
	}
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{registry: reg, bookings: store, publisher: pub, logger: log, sink: sink}, nil
}

// SetStatusBoard attaches a driver status board fed by accept and status
// transitions. A nil board disables recording.
func (e *Engine) SetStatusBoard(b driverstatus.Store) { e.board = b }

// DriverStatuses returns the board entries matching the filter, ordered by
// driver id. Without a board it returns an empty slice.
func (e *Engine) DriverStatuses(f driverstatus.Filter) []driverstatus.Status {
	if e.board == nil {
		return []driverstatus.Status{}
	}
	return e.board.List(f)
}

// RequestBooking creates and prices a booking, then broadcasts it to every
// connected driver. No geographic or availability filtering is applied; the
// whole pool sees every request.
func (e *Engine) RequestBooking(userID string, pickup, dropoff float64, vt model.VehicleType) (model.Booking, error) {
	b := e.bookings.Create(userID, pickup, dropoff, vt)
	e.logger.Infof("booking %d created for user %s (%s, est %.0f)", b.ID, userID, vt, b.EstimatedCost)
	bookingsCreated.WithLabelValues(string(vt)).Inc()
	e.record(metrics.BookingEvent{Kind: metrics.KindCreated, Booking: b})
	e.publish(events.AllDrivers(), events.NewBooking{Booking: b})
	return b, nil
}

// AcceptBooking resolves the accept race. Exactly one driver wins a Pending
// booking; everyone else gets ErrBookingNotAvailable and no event is sent.
// The winner's registry record is updated to reference the booking.
func (e *Engine) AcceptBooking(driverID string, bookingID int64) (model.Booking, error) {
	if _, err := e.registry.Driver(driverID); err != nil {
		acceptsRejected.Inc()
		return model.Booking{}, booking.ErrBookingNotAvailable
	}
	b, err := e.bookings.Accept(bookingID, driverID)
	if err != nil {
		acceptsRejected.Inc()
		return model.Booking{}, err
	}
	if err := e.registry.SetDriverBooking(driverID, b.ID); err != nil {
		// Driver record vanished between the check and the win. The
		// assignment on the booking stands; log and continue.
		e.logger.Warnf("booking %d: set driver booking: %v", b.ID, err)
	}
	e.logger.Infof("booking %d accepted by driver %s", b.ID, driverID)
	if e.board != nil {
		e.board.RecordRide(driverID, b.ID, string(b.Status), model.Location{})
	}
	acceptsWon.Inc()
	e.record(metrics.BookingEvent{Kind: metrics.KindAccepted, Booking: b})
	e.publish(events.User(b.UserID), events.BookingAccepted{Booking: b})
	return b, nil
}

// ReportStatus overwrites the status of the driver's active booking and
// forwards it, with the reported location, to the owning user. A driver with
// no active booking gets ErrNoActiveBooking and no event is sent.
func (e *Engine) ReportStatus(driverID string, status model.Status, loc model.Location) (model.Booking, error) {
	d, err := e.registry.Driver(driverID)
	if err != nil || d.ActiveBooking == 0 {
		return model.Booking{}, ErrNoActiveBooking
	}
	b, err := e.bookings.UpdateStatus(d.ActiveBooking, status)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return model.Booking{}, ErrNoActiveBooking
		}
		return model.Booking{}, err
	}
	if status.IsTerminal() {
		if err := e.registry.ClearDriverBooking(driverID); err != nil {
			e.logger.Warnf("booking %d: release driver %s: %v", b.ID, driverID, err)
		}
	}
	if e.board != nil {
		boardBooking := b.ID
		if status.IsTerminal() {
			boardBooking = 0
		}
		e.board.RecordRide(driverID, boardBooking, string(status), loc)
	}
	statusUpdates.WithLabelValues(string(status)).Inc()
	e.record(metrics.BookingEvent{Kind: metrics.KindStatus, Booking: b})
	e.publish(events.User(b.UserID), events.StatusUpdate{
		BookingID: b.ID,
		Status:    status,
		Location:  loc,
	})
	return b, nil
}

// Booking returns a snapshot of a single booking.
func (e *Engine) Booking(id int64) (model.Booking, error) {
	return e.bookings.Get(id)
}

// Bookings returns snapshots of all bookings ordered by id.
func (e *Engine) Bookings() []model.Booking {
	return e.bookings.List()
}

func (e *Engine) publish(target events.Target, ev any) {
	if err := e.publisher.Publish(target, ev); err != nil {
		publishFailure.Inc()
		e.logger.Warnf("publish %T to %s: %v", ev, target, err)
		monitoring.CaptureException(err, map[string]string{"component": "dispatch", "target": target.String()})
		return
	}
	publishSuccess.Inc()
}

func (e *Engine) record(ev metrics.BookingEvent) {
	ev.Time = time.Now()
	if err := e.sink.RecordBookingEvent(ev); err != nil {
		e.logger.Warnf("record booking event: %v", err)
		monitoring.CaptureException(err, map[string]string{"component": "dispatch", "kind": string(ev.Kind)})
	}
}
