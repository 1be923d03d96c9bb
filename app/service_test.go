package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openhail/dispatchd/config"
	"github.com/openhail/dispatchd/core/model"
)

func newTestServer(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	svc, err := New(&config.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	srv := httptest.NewServer(svc.Routes())
	t.Cleanup(srv.Close)
	return svc, srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

type apiResponse struct {
	Success bool           `json:"success"`
	Booking *model.Booking `json:"booking"`
	Message string         `json:"message"`
}

func decode(t *testing.T, resp *http.Response) apiResponse {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRideLifecycleOverHTTP(t *testing.T) {
	_, srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/register/user", map[string]string{"userId": "u1", "handle": "alice"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = postJSON(t, srv.URL+"/api/register/driver", map[string]string{"driverId": "d1", "handle": "bob"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	out := decode(t, postJSON(t, srv.URL+"/api/book", map[string]any{
		"userId": "u1", "pickup": 0.0, "dropoff": 5.0, "vehicleType": "Medium",
	}))
	require.True(t, out.Success)
	require.Equal(t, float64(70), out.Booking.EstimatedCost)
	id := out.Booking.ID

	out = decode(t, postJSON(t, srv.URL+"/api/driver/accept", map[string]any{"driverId": "d1", "bookingId": id}))
	require.True(t, out.Success)
	require.Equal(t, "d1", out.Booking.DriverID)

	// Second accept on the same booking loses the race.
	out = decode(t, postJSON(t, srv.URL+"/api/driver/accept", map[string]any{"driverId": "d1", "bookingId": id}))
	require.False(t, out.Success)
	require.Equal(t, "Booking not available", out.Message)

	out = decode(t, postJSON(t, srv.URL+"/api/driver/status", map[string]any{
		"driverId": "d1", "status": "EnRoute", "location": map[string]float64{"lat": 1, "lng": 2},
	}))
	require.True(t, out.Success)

	resp, err := http.Get(srv.URL + "/api/drivers?on_ride=true")
	require.NoError(t, err)
	var drivers []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&drivers))
	_ = resp.Body.Close()
	require.Len(t, drivers, 1)
	require.Equal(t, "d1", drivers[0]["driver_id"])

	out = decode(t, postJSON(t, srv.URL+"/api/driver/status", map[string]any{
		"driverId": "d1", "status": "Completed", "location": map[string]float64{"lat": 5, "lng": 5},
	}))
	require.True(t, out.Success)

	// Released drivers can no longer report.
	out = decode(t, postJSON(t, srv.URL+"/api/driver/status", map[string]any{
		"driverId": "d1", "status": "EnRoute",
	}))
	require.False(t, out.Success)
	require.Equal(t, "No active booking for driver", out.Message)
}

func TestHealthEndpoint(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServiceUsesLocalBusWhenMQTTDisabled(t *testing.T) {
	svc, _ := newTestServer(t)
	require.NotNil(t, svc.Bus())
}
