package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"homecare/internal/availability/service"
	httputil "homecare/pkg/http"
	"homecare/pkg/logger"
	"homecare/pkg/middleware"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, guard *middleware.Guard, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

// FindStaff resolves GET /api/v1/staff/service/:serviceId?time=...&customer_id=...&address=...
// The time parameter is RFC3339; customer_id is optional and only affects
// favorite ranking.
func (h *AvailabilityHandler) FindStaff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	at, err := httputil.ParseTimeParam(query.Get("time"), "time")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "FindStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	staff, err := h.service.FindAvailableStaff(
		r.Context(),
		ps.ByName("serviceId"),
		query.Get("customer_id"),
		query.Get("address"),
		at,
	)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "FindStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, staff); err != nil {
		h.log.Error("failed to write success response", "handler", "FindStaff", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/staff/service/:serviceId", h.guard.Protect(h.FindStaff))
}
