package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/openhail/dispatchd/core/booking"
	"github.com/openhail/dispatchd/core/model"
)

// N drivers race for one Pending booking: exactly one wins, the rest get the
// not-available outcome, and the final record names the winner.
func TestAcceptBookingRace(t *testing.T) {
	eng, reg, _ := newTestEngine(t)
	reg.RegisterUser("u1", "conn-u1")

	const drivers = 50
	ids := make([]string, drivers)
	for i := range ids {
		ids[i] = fmt.Sprintf("d%d", i)
		reg.RegisterDriver(ids[i], model.Handle(fmt.Sprintf("conn-%d", i)))
	}

	b, err := eng.RequestBooking("u1", 0, 8, model.VehicleLarge)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var wg sync.WaitGroup
	winners := make(chan string, drivers)
	start := make(chan struct{})
	var lost int64
	var mu sync.Mutex
	for _, id := range ids {
		wg.Add(1)
		go func(driverID string) {
			defer wg.Done()
			<-start
			if got, err := eng.AcceptBooking(driverID, b.ID); err == nil {
				winners <- got.DriverID
			} else if errors.Is(err, booking.ErrBookingNotAvailable) {
				mu.Lock()
				lost++
				mu.Unlock()
			} else {
				t.Errorf("driver %s saw unexpected error: %v", driverID, err)
			}
		}(id)
	}
	close(start)
	wg.Wait()
	close(winners)

	if len(winners) != 1 {
		t.Fatalf("expected exactly one winner, got %d", len(winners))
	}
	winner := <-winners
	if lost != drivers-1 {
		t.Fatalf("expected %d losers, got %d", drivers-1, lost)
	}

	final, err := eng.Booking(b.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if final.DriverID != winner || final.Status != model.StatusAccepted {
		t.Fatalf("final booking inconsistent with winner %s: %+v", winner, final)
	}
	d, err := reg.Driver(winner)
	if err != nil {
		t.Fatalf("winner lookup: %v", err)
	}
	if d.ActiveBooking != b.ID {
		t.Fatalf("winner's active booking = %d, want %d", d.ActiveBooking, b.ID)
	}
	for _, id := range ids {
		if id == winner {
			continue
		}
		if d, _ := reg.Driver(id); d.ActiveBooking != 0 {
			t.Fatalf("loser %s holds booking %d", id, d.ActiveBooking)
		}
	}
}

// Concurrent requests and accepts across unrelated bookings must not
// serialize or corrupt each other.
func TestIndependentBookingsConcurrent(t *testing.T) {
	eng, reg, _ := newTestEngine(t)
	const n = 32
	for i := 0; i < n; i++ {
		reg.RegisterUser(fmt.Sprintf("u%d", i), "conn")
		reg.RegisterDriver(fmt.Sprintf("d%d", i), "conn")
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", i)
			driver := fmt.Sprintf("d%d", i)
			b, err := eng.RequestBooking(user, 0, float64(i), model.VehicleSmall)
			if err != nil {
				t.Errorf("request %s: %v", user, err)
				return
			}
			if _, err := eng.AcceptBooking(driver, b.ID); err != nil {
				t.Errorf("accept %s: %v", driver, err)
				return
			}
			if _, err := eng.ReportStatus(driver, "Completed", model.Location{}); err != nil {
				t.Errorf("report %s: %v", driver, err)
			}
		}(i)
	}
	wg.Wait()

	bookings := eng.Bookings()
	if len(bookings) != n {
		t.Fatalf("expected %d bookings, got %d", n, len(bookings))
	}
	for _, b := range bookings {
		if b.Status != "Completed" || !b.Assigned() {
			t.Fatalf("booking %d not completed/assigned: %+v", b.ID, b)
		}
	}
}
