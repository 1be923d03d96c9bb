// Package driverstatus tracks the last reported state of every driver. The
// board is a read model fed by the dispatch engine; it never drives dispatch
// decisions.
package driverstatus

import (
	"sort"
	"sync"
	"time"

	"github.com/openhail/dispatchd/core/model"
)

// Status captures the current known state of a driver.
type Status struct {
	DriverID      string         `json:"driver_id"`
	Handle        model.Handle   `json:"handle,omitempty"`
	CurrentStatus string         `json:"current_status"`
	BookingID     int64          `json:"booking_id,omitempty"`
	Location      model.Location `json:"location"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Filter narrows a List call. Zero values match everything.
type Filter struct {
	Status   string
	OnRide   bool
	DriverID string
}

type Store interface {
	Set(Status)
	RecordRide(driverID string, bookingID int64, status string, loc model.Location)
	List(Filter) []Status
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Status{}}
}

func (s *MemoryStore) Set(st Status) {
	st.UpdatedAt = time.Now()
	s.mu.Lock()
	s.data[st.DriverID] = st
	s.mu.Unlock()
}

// RecordRide updates the board entry for a driver in place, creating it when
// the driver has never reported before.
func (s *MemoryStore) RecordRide(driverID string, bookingID int64, status string, loc model.Location) {
	s.mu.Lock()
	st := s.data[driverID]
	if st.DriverID == "" {
		st.DriverID = driverID
	}
	st.BookingID = bookingID
	st.CurrentStatus = status
	st.Location = loc
	st.UpdatedAt = time.Now()
	s.data[driverID] = st
	s.mu.Unlock()
}

func (s *MemoryStore) List(f Filter) []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		if f.DriverID != "" && st.DriverID != f.DriverID {
			continue
		}
		if f.Status != "" && st.CurrentStatus != f.Status {
			continue
		}
		if f.OnRide && st.BookingID == 0 {
			continue
		}
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].DriverID < res[j].DriverID })
	return res
}
