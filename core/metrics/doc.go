// Package metrics defines interfaces for recording booking lifecycle events.
// Sinks like the Prometheus and InfluxDB adapters in infra/metrics implement
// BookingSink and can be combined with a MultiSink when several backends are
// configured.
package metrics
