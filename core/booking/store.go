// Package booking owns booking identity and lifecycle. The store is the
// authoritative state machine for each booking; the accept path is the one
// place in the system that needs strict mutual exclusion.
package booking

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/openhail/dispatchd/core/model"
	"github.com/openhail/dispatchd/core/pricing"
)

// Store maps booking ids to records. Identifiers are allocated from an
// atomic counter, so they are unique and strictly increasing even under
// concurrent creation. Each record carries its own lock: unrelated bookings
// never contend with each other.
type Store struct {
	nextID  atomic.Int64
	mu      sync.RWMutex
	entries map[int64]*entry
}

type entry struct {
	mu sync.Mutex
	b  model.Booking
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

// Create allocates the next booking id, prices the ride, and stores the
// record as Pending with no driver. It always succeeds; malformed numeric
// input degrades to a degenerate cost rather than failing.
func (s *Store) Create(userID string, pickup, dropoff float64, vt model.VehicleType) model.Booking {
	b := model.Booking{
		ID:            s.nextID.Add(1),
		UserID:        userID,
		Pickup:        pickup,
		Dropoff:       dropoff,
		VehicleType:   vt,
		EstimatedCost: pricing.Estimate(pickup, dropoff, vt),
		Status:        model.StatusPending,
	}
	s.mu.Lock()
	s.entries[b.ID] = &entry{b: b}
	s.mu.Unlock()
	return b
}

// Accept transitions the booking from Pending to Accepted and assigns the
// driver. The check-then-set runs under the booking's lock, so with N racing
// drivers exactly one wins; the rest observe ErrBookingNotAvailable and no
// mutation. The winning assignment is immutable afterwards.
func (s *Store) Accept(bookingID int64, driverID string) (model.Booking, error) {
	e, ok := s.lookup(bookingID)
	if !ok {
		return model.Booking{}, ErrBookingNotAvailable
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.b.Status != model.StatusPending {
		return model.Booking{}, ErrBookingNotAvailable
	}
	e.b.Status = model.StatusAccepted
	e.b.DriverID = driverID
	return e.b, nil
}

// UpdateStatus overwrites the booking's status field. Post-acceptance
// statuses are caller-supplied free-form strings; no next-state validation
// is applied.
func (s *Store) UpdateStatus(bookingID int64, status model.Status) (model.Booking, error) {
	e, ok := s.lookup(bookingID)
	if !ok {
		return model.Booking{}, ErrBookingNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.b.Status = status
	return e.b, nil
}

// Get returns a snapshot of the booking.
func (s *Store) Get(bookingID int64) (model.Booking, error) {
	e, ok := s.lookup(bookingID)
	if !ok {
		return model.Booking{}, ErrBookingNotFound
	}
	e.mu.Lock()
	b := e.b
	e.mu.Unlock()
	return b, nil
}

// List returns snapshots of all bookings ordered by id.
func (s *Store) List() []model.Booking {
	s.mu.RLock()
	es := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		es = append(es, e)
	}
	s.mu.RUnlock()
	res := make([]model.Booking, 0, len(es))
	for _, e := range es {
		e.mu.Lock()
		res = append(res, e.b)
		e.mu.Unlock()
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (s *Store) lookup(id int64) (*entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	return e, ok
}
