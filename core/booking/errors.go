package booking

import "errors"

var (
	// ErrBookingNotFound is returned for lookups of unknown booking ids.
	ErrBookingNotFound = errors.New("booking: not found")
	// ErrBookingNotAvailable is returned to accept attempts that lose the
	// race or target a missing or already-claimed booking.
	ErrBookingNotAvailable = errors.New("booking: not available")
)
