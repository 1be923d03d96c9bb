package metrics

import (
	"time"

	"github.com/openhail/dispatchd/core/model"
)

// EventKind names a booking lifecycle transition.
type EventKind string

const (
	KindCreated  EventKind = "created"
	KindAccepted EventKind = "accepted"
	KindStatus   EventKind = "status"
)

// BookingEvent is a per-booking lifecycle event to be recorded.
type BookingEvent struct {
	Kind    EventKind
	Booking model.Booking
	Time    time.Time
}

// BookingSink records booking lifecycle events for observability purposes.
type BookingSink interface {
	RecordBookingEvent(ev BookingEvent) error
}

// NopSink implements BookingSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordBookingEvent(BookingEvent) error { return nil }
