package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"homecare/internal/favorites/service"
	httputil "homecare/pkg/http"
	"homecare/pkg/logger"
	"homecare/pkg/middleware"
)

type FavoriteHandler struct {
	service service.FavoriteService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewFavoriteHandler(service service.FavoriteService, guard *middleware.Guard, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		StaffID string `json:"staff_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Add", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	favorite, err := h.service.Add(r.Context(), ps.ByName("customerId"), body.StaffID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Add", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, favorite); err != nil {
		h.log.Error("failed to write created response", "handler", "Add", "operation", "WriteCreated", "error", err)
	}
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Remove(r.Context(), ps.ByName("customerId"), ps.ByName("staffId")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Remove", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	favorites, err := h.service.ListByCustomer(r.Context(), ps.ByName("customerId"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, favorites); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FavoriteHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/favorites/customer/:customerId", h.guard.Protect(h.Add))
	router.GET("/api/v1/favorites/customer/:customerId", h.guard.Protect(h.List))
	router.DELETE("/api/v1/favorites/customer/:customerId/staff/:staffId", h.guard.Protect(h.Remove))
}
