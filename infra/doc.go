// Package infra holds the technical adapters: the MQTT event channel,
// metrics exporters, and error monitoring. Adapters depend only on the
// interfaces defined under core.
package infra
