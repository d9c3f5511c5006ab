package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"homecare/internal/accounts/service"
	httputil "homecare/pkg/http"
	"homecare/pkg/logger"
	"homecare/pkg/middleware"
	"homecare/pkg/model"
)

type AccountHandler struct {
	service service.AccountService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewAccountHandler(service service.AccountService, guard *middleware.Guard, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg model.AccountRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	account, err := h.service.Register(r.Context(), &reg)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, account); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Login", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	token, account, err := h.service.Login(r.Context(), &creds)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"token":   token,
		"account": account,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccountHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	account, err := h.service.FindByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, account); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccountHandler) GetInactiveStaff(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetInactiveStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	staff, total, err := h.service.GetInactiveStaff(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetInactiveStaff", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, staff, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetInactiveStaff", "operation", "WritePaginated", "error", err)
	}
}

func (h *AccountHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Approve(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Approve", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AccountHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Reject(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reject", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AccountHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/accounts/register", h.Register)
	router.POST("/api/v1/accounts/login", h.Login)
	router.GET("/api/v1/accounts/id/:id", h.guard.Protect(h.GetByID))
	router.GET("/api/v1/accounts/staff/pending", h.guard.Protect(h.GetInactiveStaff, model.RoleAdmin, model.RoleManager))
	router.PATCH("/api/v1/accounts/staff/:id/approve", h.guard.Protect(h.Approve, model.RoleAdmin, model.RoleManager))
	router.DELETE("/api/v1/accounts/staff/:id/reject", h.guard.Protect(h.Reject, model.RoleAdmin, model.RoleManager))
}
