// Package registry tracks which connection handle represents each user and
// driver, and each driver's active booking. All state is process-lifetime
// in-memory; every method is safe under concurrent use.
package registry

import (
	"errors"
	"sort"
	"sync"

	"github.com/openhail/dispatchd/core/model"
)

var (
	// ErrUserNotFound is returned for lookups of unregistered users.
	ErrUserNotFound = errors.New("registry: user not found")
	// ErrDriverNotFound is returned for lookups of unregistered drivers.
	ErrDriverNotFound = errors.New("registry: driver not found")
)

// Registry is the in-memory directory of connected parties.
type Registry struct {
	mu      sync.RWMutex
	users   map[string]model.User
	drivers map[string]model.Driver
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		users:   make(map[string]model.User),
		drivers: make(map[string]model.Driver),
	}
}

// RegisterUser upserts the user's connection handle. Re-registration with a
// fresh handle supports reconnects; no second record is created.
func (r *Registry) RegisterUser(id string, h model.Handle) {
	r.mu.Lock()
	r.users[id] = model.User{ID: id, Handle: h, Connected: true}
	r.mu.Unlock()
}

// RegisterDriver upserts the driver's connection handle. The active booking,
// if any, survives the reconnect: a driver's assigned ride must not be lost
// because the connection dropped.
func (r *Registry) RegisterDriver(id string, h model.Handle) {
	r.mu.Lock()
	d := r.drivers[id]
	d.ID = id
	d.Handle = h
	d.Connected = true
	r.drivers[id] = d
	r.mu.Unlock()
}

// User looks up a registered user.
func (r *Registry) User(id string) (model.User, error) {
	r.mu.RLock()
	u, ok := r.users[id]
	r.mu.RUnlock()
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

// Driver looks up a registered driver.
func (r *Registry) Driver(id string) (model.Driver, error) {
	r.mu.RLock()
	d, ok := r.drivers[id]
	r.mu.RUnlock()
	if !ok {
		return model.Driver{}, ErrDriverNotFound
	}
	return d, nil
}

// SetDriverBooking records the driver's active booking reference.
func (r *Registry) SetDriverBooking(driverID string, bookingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[driverID]
	if !ok {
		return ErrDriverNotFound
	}
	d.ActiveBooking = bookingID
	r.drivers[driverID] = d
	return nil
}

// ClearDriverBooking releases the driver after a terminal status.
func (r *Registry) ClearDriverBooking(driverID string) error {
	return r.SetDriverBooking(driverID, 0)
}

// Disconnect marks the connection inactive. Records are kept so that an
// assigned driver or a waiting user stays retrievable across reconnects.
func (r *Registry) Disconnect(h model.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Handle == h {
			u.Connected = false
			r.users[id] = u
		}
	}
	for id, d := range r.drivers {
		if d.Handle == h {
			d.Connected = false
			r.drivers[id] = d
		}
	}
}

// Drivers returns a snapshot of all registered drivers, ordered by id.
func (r *Registry) Drivers() []model.Driver {
	r.mu.RLock()
	res := make([]model.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		res = append(res, d)
	}
	r.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Users returns a snapshot of all registered users, ordered by id.
func (r *Registry) Users() []model.User {
	r.mu.RLock()
	res := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		res = append(res, u)
	}
	r.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}
