package dispatch

import "errors"

// ErrNoActiveBooking is returned to status reports from drivers without an
// assigned booking, or whose driver id is unknown.
var ErrNoActiveBooking = errors.New("dispatch: no active booking for driver")
