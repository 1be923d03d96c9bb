// Package registry exposes the one-way registration surface over HTTP.
// Registration and disconnect are fire-and-forget: state is mutated and no
// response payload is returned.
package registry

import (
	"encoding/json"
	"net/http"

	"github.com/openhail/dispatchd/core/logger"
	"github.com/openhail/dispatchd/core/model"
	coreregistry "github.com/openhail/dispatchd/core/registry"
)

type registerRequest struct {
	UserID   string `json:"userId,omitempty"`
	DriverID string `json:"driverId,omitempty"`
	Handle   string `json:"handle"`
}

type disconnectRequest struct {
	Handle string `json:"handle"`
}

// Handler serves the registration endpoints.
type Handler struct {
	registry *coreregistry.Registry
	log      logger.Logger
}

// NewHandler creates a Handler backed by the registry.
func NewHandler(reg *coreregistry.Registry, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop{}
	}
	return &Handler{registry: reg, log: log}
}

// Register mounts the registration routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register/user", h.RegisterUser)
	mux.HandleFunc("POST /api/register/driver", h.RegisterDriver)
	mux.HandleFunc("POST /api/disconnect", h.Disconnect)
}

// RegisterUser handles POST /api/register/user.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	h.registry.RegisterUser(req.UserID, model.Handle(req.Handle))
	h.log.Infof("user registered: %s", req.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// RegisterDriver handles POST /api/register/driver.
func (h *Handler) RegisterDriver(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DriverID == "" {
		http.Error(w, "driverId is required", http.StatusBadRequest)
		return
	}
	h.registry.RegisterDriver(req.DriverID, model.Handle(req.Handle))
	h.log.Infof("driver registered: %s", req.DriverID)
	w.WriteHeader(http.StatusNoContent)
}

// Disconnect handles POST /api/disconnect.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	var req disconnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Handle == "" {
		http.Error(w, "handle is required", http.StatusBadRequest)
		return
	}
	h.registry.Disconnect(model.Handle(req.Handle))
	h.log.Infof("disconnected handle %s", req.Handle)
	w.WriteHeader(http.StatusNoContent)
}
