package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eventbooking/internal/bookings/service"
	apperrors "eventbooking/pkg/errors"
	httputil "eventbooking/pkg/http"
	"eventbooking/pkg/logger"
	"eventbooking/pkg/middleware"
	"eventbooking/pkg/model"
)

type BookingHandler struct {
	coordinator *service.BookingCoordinator
	log         *logger.Logger
}

func NewBookingHandler(coordinator *service.BookingCoordinator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		coordinator: coordinator,
		log:         log,
	}
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requesterID, ok := h.requester(w, r, "Book")
	if !ok {
		return
	}

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Book", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, booking := h.coordinator.Book(r.Context(), requesterID, &req)

	var data any
	if booking != nil {
		data = booking
	}
	if err := httputil.WriteOutcome(w, result, data); err != nil {
		h.log.Error("failed to write outcome response", "handler", "Book", "operation", "WriteOutcome", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requesterID, ok := h.requester(w, r, "Cancel")
	if !ok {
		return
	}

	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Cancel", "operation", "WriteJSON", "error", err)
		}
		return
	}

	result := h.coordinator.Cancel(r.Context(), requesterID, id)

	if err := httputil.WriteOutcome(w, result, nil); err != nil {
		h.log.Error("failed to write outcome response", "handler", "Cancel", "operation", "WriteOutcome", "error", err)
	}
}

func (h *BookingHandler) Mine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requesterID, ok := h.requester(w, r, "Mine")
	if !ok {
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Mine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	views, totalCount, err := h.coordinator.GetForRequester(r.Context(), requesterID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Mine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, views, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Mine", "operation", "WritePaginated", "error", err)
	}
}

// requester pulls the gateway identity off the request context. Requests
// that arrive without one never reach the coordinator.
func (h *BookingHandler) requester(w http.ResponseWriter, r *http.Request, handlerName string) (string, bool) {
	requesterID := middleware.RequesterFromContext(r.Context())
	if requesterID == "" {
		if err := httputil.WriteError(w, apperrors.Unauthorized("requester identity is required")); err != nil {
			h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", err)
		}
		return "", false
	}
	return requesterID, true
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Book)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.GET("/api/v1/bookings/mine", h.Mine)
}
