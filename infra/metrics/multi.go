package metrics

import coremetrics "github.com/openhail/dispatchd/core/metrics"

// MultiSink fans booking events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.BookingSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.BookingSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBookingEvent forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordBookingEvent(ev coremetrics.BookingEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordBookingEvent(ev); err != nil {
			return err
		}
	}
	return nil
}
