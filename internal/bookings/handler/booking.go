package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"homecare/internal/bookings/service"
	apperrors "homecare/pkg/errors"
	httputil "homecare/pkg/http"
	"homecare/pkg/logger"
	"homecare/pkg/middleware"
	"homecare/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, guard *middleware.Guard, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) GetByCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByCustomer", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.GetByCustomer(r.Context(), ps.ByName("customerId"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByCustomer", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByCustomer", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) GetByStaff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.GetByStaff(r.Context(), ps.ByName("staffId"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByStaff", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) ChangeStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var change model.BookingStatusChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ChangeStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	// Customers may only cancel; the remaining transitions belong to staff
	// and administrators.
	if role, ok := middleware.Role(r.Context()); ok && role == model.RoleCustomer && change.Status != model.StatusCanceled {
		if writeErr := httputil.WriteError(w, apperrors.Forbidden("Customers may only cancel bookings")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ChangeStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.ChangeStatus(r.Context(), ps.ByName("id"), &change); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ChangeStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var completion model.BookingCompletion
	if err := json.NewDecoder(r.Body).Decode(&completion); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Complete", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Complete(r.Context(), ps.ByName("id"), &completion); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Complete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) ReassignStaff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		StaffID string `json:"staff_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ReassignStaff", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.ReassignStaff(r.Context(), ps.ByName("id"), body.StaffID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ReassignStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) AssignStaff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		StaffID string `json:"staff_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AssignStaff", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AssignStaff(r.Context(), ps.ByName("id"), body.StaffID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AssignStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.guard.Protect(h.Create))
	router.GET("/api/v1/bookings", h.guard.Protect(h.GetAll, model.RoleAdmin, model.RoleManager))
	router.GET("/api/v1/bookings/id/:id", h.guard.Protect(h.GetByID))
	router.PATCH("/api/v1/bookings/id/:id/status", h.guard.Protect(h.ChangeStatus))
	router.PUT("/api/v1/bookings/id/:id/cancel", h.guard.Protect(h.Cancel))
	router.PATCH("/api/v1/bookings/id/:id/complete", h.guard.Protect(h.Complete, model.RoleStaff, model.RoleAdmin, model.RoleManager))
	router.PUT("/api/v1/bookings/change-staff/:id", h.guard.Protect(h.ReassignStaff, model.RoleAdmin, model.RoleManager))
	router.PATCH("/api/v1/bookings/id/:id/assign", h.guard.Protect(h.AssignStaff, model.RoleAdmin, model.RoleManager))
	router.GET("/api/v1/bookings/customer/:customerId", h.guard.Protect(h.GetByCustomer))
	router.GET("/api/v1/bookings/staff/:staffId", h.guard.Protect(h.GetByStaff))
}
