package events

import "github.com/openhail/dispatchd/core/model"

// NewBooking is broadcast to all drivers when a user requests a ride.
type NewBooking struct {
	Booking model.Booking `json:"booking"`
}

// BookingAccepted is published to the owning user once a driver wins the
// accept race.
type BookingAccepted struct {
	Booking model.Booking `json:"booking"`
}

// StatusUpdate is published to the owning user when the assigned driver
// reports progress. Location is carried on the event only.
type StatusUpdate struct {
	BookingID int64          `json:"bookingId"`
	Status    model.Status   `json:"status"`
	Location  model.Location `json:"location"`
}
