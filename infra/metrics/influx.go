package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/openhail/dispatchd/core/metrics"
	"github.com/openhail/dispatchd/infra/logger"
)

// InfluxSink writes booking lifecycle events to an InfluxDB instance using
// the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.BookingSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordBookingEvent writes the lifecycle event as a line protocol point.
func (s *InfluxSink) RecordBookingEvent(ev coremetrics.BookingEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	p := write.NewPoint("booking_event",
		map[string]string{
			"kind":         string(ev.Kind),
			"vehicle_type": string(ev.Booking.VehicleType),
			"status":       string(ev.Booking.Status),
		},
		map[string]interface{}{
			"booking_id":     ev.Booking.ID,
			"user_id":        ev.Booking.UserID,
			"driver_id":      ev.Booking.DriverID,
			"estimated_cost": ev.Booking.EstimatedCost,
		},
		ts,
	)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Errorf("influx write: %v", err)
		return err
	}
	return nil
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
