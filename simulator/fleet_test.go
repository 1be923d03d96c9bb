package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openhail/dispatchd/core/booking"
	"github.com/openhail/dispatchd/core/dispatch"
	"github.com/openhail/dispatchd/core/events"
	"github.com/openhail/dispatchd/core/model"
	"github.com/openhail/dispatchd/core/registry"
	"github.com/openhail/dispatchd/internal/eventbus"
)

func newTestStack(t *testing.T) (*dispatch.Engine, *registry.Registry, *eventbus.Bus) {
	t.Helper()
	reg := registry.New()
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	engine, err := dispatch.NewEngine(reg, booking.NewStore(), bus, nil, nil)
	require.NoError(t, err)
	return engine, reg, bus
}

func TestGenerateFleet(t *testing.T) {
	drivers := GenerateFleet(Config{Count: 3})
	require.Len(t, drivers, 3)
	require.Equal(t, "drv0001", drivers[0].ID)
	require.Equal(t, "drv0003", drivers[2].ID)

	require.Nil(t, GenerateFleet(Config{Count: 0}))
}

func TestFleetServesBookingToCompletion(t *testing.T) {
	engine, reg, bus := newTestStack(t)
	reg.RegisterUser("u1", "alice")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fleet := NewFleet(Config{Count: 5})
	require.NoError(t, fleet.Start(ctx, engine, reg, bus))

	userCh, err := bus.Subscribe(events.User("u1"))
	require.NoError(t, err)

	b, err := engine.RequestBooking("u1", 2, 9, model.VehicleSmall)
	require.NoError(t, err)

	select {
	case ev := <-userCh:
		accepted, ok := ev.(events.BookingAccepted)
		require.True(t, ok, "expected BookingAccepted, got %T", ev)
		require.Equal(t, b.ID, accepted.Booking.ID)
		require.NotEmpty(t, accepted.Booking.DriverID)
	case <-time.After(2 * time.Second):
		t.Fatal("no acceptance within deadline")
	}

	require.Eventually(t, func() bool {
		got, err := engine.Booking(b.ID)
		return err == nil && got.Status.IsTerminal()
	}, 2*time.Second, 10*time.Millisecond, "booking never reached a terminal status")

	got, err := engine.Booking(b.ID)
	require.NoError(t, err)
	drv, err := reg.Driver(got.DriverID)
	require.NoError(t, err)
	require.Zero(t, drv.ActiveBooking, "terminal status should release the driver")
}

func TestFleetExactlyOneWinnerPerBooking(t *testing.T) {
	engine, reg, bus := newTestStack(t)
	reg.RegisterUser("u1", "alice")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Large step delay keeps winners busy so every driver races each booking.
	fleet := NewFleet(Config{Count: 10, StepDelay: time.Hour})
	require.NoError(t, fleet.Start(ctx, engine, reg, bus))

	const rides = 5
	ids := make([]int64, 0, rides)
	for i := 0; i < rides; i++ {
		b, err := engine.RequestBooking("u1", float64(i), float64(i+3), model.VehicleMedium)
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	require.Eventually(t, func() bool {
		for _, id := range ids {
			b, err := engine.Booking(id)
			if err != nil || !b.Assigned() {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond, "not every booking found a driver")

	seen := map[string]bool{}
	for _, id := range ids {
		b, err := engine.Booking(id)
		require.NoError(t, err)
		require.False(t, seen[b.DriverID], "driver %s won two concurrent bookings", b.DriverID)
		seen[b.DriverID] = true
	}
}
