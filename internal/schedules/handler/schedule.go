package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"homecare/internal/schedules/service"
	httputil "homecare/pkg/http"
	"homecare/pkg/logger"
	"homecare/pkg/middleware"
	"homecare/pkg/model"
)

type ScheduleHandler struct {
	service service.ScheduleService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, guard *middleware.Guard, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *ScheduleHandler) GetByStaff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedule, err := h.service.GetByStaffID(r.Context(), ps.ByName("staffId"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByStaff", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Days []model.DayWindowInput `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	schedule, err := h.service.Update(r.Context(), ps.ByName("staffId"), body.Days)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/schedules/staff/:staffId", h.guard.Protect(h.GetByStaff))
	router.PUT("/api/v1/schedules/staff/:staffId", h.guard.Protect(h.Update, model.RoleStaff, model.RoleAdmin, model.RoleManager))
}
