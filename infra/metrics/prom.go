package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/openhail/dispatchd/core/metrics"
)

// PromSink records booking lifecycle events in Prometheus metrics.
type PromSink struct {
	events *prometheus.CounterVec
	cost   *prometheus.HistogramVec
}

// NewPromSink registers booking metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_events_total",
		Help: "Total number of booking lifecycle events",
	}, []string{"kind", "vehicle_type", "status"})
	cost := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "booking_estimated_cost",
		Help:    "Estimated cost of created bookings",
		Buckets: prometheus.ExponentialBuckets(10, 2, 8),
	}, []string{"vehicle_type"})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cost); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cost = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{events: events, cost: cost}, nil
}

// RecordBookingEvent increments the counter for the lifecycle event and, for
// creations, observes the estimated cost.
func (s *PromSink) RecordBookingEvent(ev coremetrics.BookingEvent) error {
	s.events.WithLabelValues(string(ev.Kind), string(ev.Booking.VehicleType), string(ev.Booking.Status)).Inc()
	if ev.Kind == coremetrics.KindCreated {
		s.cost.WithLabelValues(string(ev.Booking.VehicleType)).Observe(ev.Booking.EstimatedCost)
	}
	return nil
}
