package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"eventbooking/internal/slots/service"
	httputil "eventbooking/pkg/http"
	"eventbooking/pkg/logger"
	"eventbooking/pkg/middleware"
)

type AvailabilityHandler struct {
	service *service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service *service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// List serves GET /api/v1/availability?dates=2026-09-01,2026-09-02.
func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw := r.URL.Query().Get("dates")
	if raw == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "dates query parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "List", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var dates []string
	for _, date := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(date); trimmed != "" {
			dates = append(dates, trimmed)
		}
	}

	requesterID := middleware.RequesterFromContext(r.Context())

	views, err := h.service.ListAvailability(r.Context(), dates, requesterID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, views); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.List)
}
