package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	bookingsCreated *prometheus.CounterVec
	acceptsWon      prometheus.Counter
	acceptsRejected prometheus.Counter
	statusUpdates   *prometheus.CounterVec
	publishSuccess  prometheus.Counter
	publishFailure  prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Counter, prometheus.Counter, *prometheus.CounterVec, prometheus.Counter, prometheus.Counter) {
	created := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Number of bookings created",
		},
		[]string{"vehicle_type"},
	)
	won := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_accepts_won_total",
			Help: "Number of accept attempts that won the race",
		},
	)
	rejected := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_accepts_rejected_total",
			Help: "Number of accept attempts rejected as not available",
		},
	)
	status := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_status_updates_total",
			Help: "Number of driver status updates applied",
		},
		[]string{"status"},
	)
	suc := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "event_publish_success_total",
			Help: "Number of successful event channel publish operations",
		},
	)
	fail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "event_publish_failure_total",
			Help: "Number of failed event channel publish operations",
		},
	)
	return created, won, rejected, status, suc, fail
}

func init() {
	bookingsCreated, acceptsWon, acceptsRejected, statusUpdates, publishSuccess, publishFailure = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(bookingsCreated, acceptsWon, acceptsRejected, statusUpdates, publishSuccess, publishFailure)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	bookingsCreated, acceptsWon, acceptsRejected, statusUpdates, publishSuccess, publishFailure = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
