// Package events defines the booking lifecycle events pushed to riders and
// drivers, and the typed Target addressing used to route them.
//
// Available event types:
//   - NewBooking: a fresh booking broadcast to the driver pool
//   - BookingAccepted: a driver claimed the booking, sent to the owning user
//   - StatusUpdate: driver progress report, sent to the owning user
package events
