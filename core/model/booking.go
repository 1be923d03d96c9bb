package model

import "strings"

// VehicleType classifies the vehicle requested for a ride.
type VehicleType string

const (
	VehicleSmall  VehicleType = "Small"
	VehicleMedium VehicleType = "Medium"
	VehicleLarge  VehicleType = "Large"
)

// Status is the lifecycle state of a booking. Pending and Accepted are set
// internally; after acceptance drivers report free-form statuses such as
// "EnRoute" or "Arrived".
type Status string

const (
	StatusPending   Status = "Pending"
	StatusAccepted  Status = "Accepted"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// IsTerminal reports whether the status ends the ride and frees the driver.
// The comparison is case-insensitive since post-acceptance statuses are
// caller-supplied.
func (s Status) IsTerminal() bool {
	switch strings.ToLower(string(s)) {
	case "completed", "cancelled":
		return true
	}
	return false
}

// Booking is a single ride request and its lifecycle record. Identifiers are
// strictly increasing and never reused. DriverID is empty until exactly one
// driver wins the accept race, then immutable.
type Booking struct {
	ID            int64       `json:"id"`
	UserID        string      `json:"userId"`
	Pickup        float64     `json:"pickup"`
	Dropoff       float64     `json:"dropoff"`
	VehicleType   VehicleType `json:"vehicleType"`
	EstimatedCost float64     `json:"estimatedCost"`
	Status        Status      `json:"status"`
	DriverID      string      `json:"driverId,omitempty"`
}

// Assigned reports whether a driver has claimed the booking.
func (b Booking) Assigned() bool { return b.DriverID != "" }
