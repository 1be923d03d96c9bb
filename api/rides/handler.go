// Package rides exposes the dispatch operations over HTTP. The handlers are
// the sole translator from core outcomes to caller-facing failure messages;
// no error escapes a request.
package rides

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/openhail/dispatchd/core/booking"
	"github.com/openhail/dispatchd/core/dispatch"
	"github.com/openhail/dispatchd/core/driverstatus"
	"github.com/openhail/dispatchd/core/model"
)

// Messages returned to callers on rejected operations.
const (
	msgNotAvailable    = "Booking not available"
	msgNoActiveBooking = "No active booking for driver"
	msgInternal        = "internal error"
)

type bookRequest struct {
	UserID      string            `json:"userId"`
	Pickup      float64           `json:"pickup"`
	Dropoff     float64           `json:"dropoff"`
	VehicleType model.VehicleType `json:"vehicleType"`
}

type acceptRequest struct {
	DriverID  string `json:"driverId"`
	BookingID int64  `json:"bookingId"`
}

type statusRequest struct {
	DriverID string         `json:"driverId"`
	Status   model.Status   `json:"status"`
	Location model.Location `json:"location"`
}

type response struct {
	Success bool           `json:"success"`
	Booking *model.Booking `json:"booking,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Handler serves the booking endpoints.
type Handler struct {
	engine *dispatch.Engine
}

// NewHandler creates a Handler backed by the dispatch engine.
func NewHandler(engine *dispatch.Engine) *Handler {
	return &Handler{engine: engine}
}

// Register mounts the ride routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/book", h.Book)
	mux.HandleFunc("POST /api/driver/accept", h.Accept)
	mux.HandleFunc("POST /api/driver/status", h.Status)
	mux.HandleFunc("GET /api/bookings", h.List)
	mux.HandleFunc("GET /api/bookings/{id}", h.Get)
	mux.HandleFunc("GET /api/drivers", h.Drivers)
}

// Book handles POST /api/book.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "invalid request body"})
		return
	}
	b, err := h.engine.RequestBooking(req.UserID, req.Pickup, req.Dropoff, req.VehicleType)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Booking: &b})
}

// Accept handles POST /api/driver/accept.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "invalid request body"})
		return
	}
	b, err := h.engine.AcceptBooking(req.DriverID, req.BookingID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Booking: &b})
}

// Status handles POST /api/driver/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "invalid request body"})
		return
	}
	b, err := h.engine.ReportStatus(req.DriverID, req.Status, req.Location)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Booking: &b})
}

// Get handles GET /api/bookings/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "invalid booking id"})
		return
	}
	b, err := h.engine.Booking(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, response{Success: false, Message: "booking not found"})
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Booking: &b})
}

// List handles GET /api/bookings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Bookings())
}

// Drivers handles GET /api/drivers. Entries come from the driver status
// board and can be narrowed with the status and on_ride query parameters.
func (h *Handler) Drivers(w http.ResponseWriter, r *http.Request) {
	f := driverstatus.Filter{
		Status: r.URL.Query().Get("status"),
		OnRide: r.URL.Query().Get("on_ride") == "true",
	}
	writeJSON(w, http.StatusOK, h.engine.DriverStatuses(f))
}

// writeFailure maps core errors to the structured failure body. Rejections
// are business outcomes, not transport errors, so they keep status 200 like
// the rest of the booking API.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotAvailable):
		writeJSON(w, http.StatusOK, response{Success: false, Message: msgNotAvailable})
	case errors.Is(err, dispatch.ErrNoActiveBooking):
		writeJSON(w, http.StatusOK, response{Success: false, Message: msgNoActiveBooking})
	default:
		writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: msgInternal})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
