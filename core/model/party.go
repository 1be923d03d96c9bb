package model

// Handle is an opaque connection handle referencing an addressable endpoint
// on the event channel. The transport mints it; the core never inspects it.
type Handle string

// User is a registered ride requester.
type User struct {
	ID        string
	Handle    Handle
	Connected bool
}

// Driver is a registered driver. ActiveBooking is zero when the driver is
// free; otherwise it names the one booking whose DriverID equals Driver.ID.
type Driver struct {
	ID            string
	Handle        Handle
	Connected     bool
	ActiveBooking int64
}

// Available reports whether the driver can take a new booking.
func (d Driver) Available() bool { return d.ActiveBooking == 0 }
