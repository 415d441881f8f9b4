package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eventbooking/internal/catalog/service"
	httputil "eventbooking/pkg/http"
	"eventbooking/pkg/logger"
	"eventbooking/pkg/model"
)

type CatalogHandler struct {
	service *service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service *service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var category model.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateCategory", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	created, err := h.service.CreateCategory(r.Context(), &category)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateCategory", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateCategory", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "GetCategory", "operation", "WriteJSON", "error", err)
		}
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCategory", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, category); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCategory", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListCategories", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, categories); err != nil {
		h.log.Error("failed to write success response", "handler", "ListCategories", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "UpdateCategory", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var category model.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateCategory", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	updated, err := h.service.UpdateCategory(r.Context(), id, &category)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateCategory", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateCategory", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) CreateTimeWindow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var window model.TimeWindow
	if err := json.NewDecoder(r.Body).Decode(&window); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateTimeWindow", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	created, err := h.service.CreateTimeWindow(r.Context(), &window)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateTimeWindow", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateTimeWindow", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) UpdateTimeWindow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "UpdateTimeWindow", "operation", "WriteJSON", "error", err)
		}
		return
	}

	var window model.TimeWindow
	if err := json.NewDecoder(r.Body).Decode(&window); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateTimeWindow", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	updated, err := h.service.UpdateTimeWindow(r.Context(), id, &window)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateTimeWindow", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateTimeWindow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) ListTimeWindows(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	windows, err := h.service.ListTimeWindows(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListTimeWindows", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, windows); err != nil {
		h.log.Error("failed to write success response", "handler", "ListTimeWindows", "operation", "WriteSuccess", "error", err)
	}
}

type upsertSlotRequest struct {
	Date         string `json:"date"`
	TimeWindowID string `json:"time_window_id"`
	CategoryID   string `json:"category_id"`
}

func (h *CatalogHandler) UpsertSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req upsertSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpsertSlot", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	slot, err := h.service.UpsertSlot(r.Context(), req.Date, req.TimeWindowID, req.CategoryID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpsertSlot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, slot); err != nil {
		h.log.Error("failed to write created response", "handler", "UpsertSlot", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) DeleteSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "DeleteSlot", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := h.service.DeleteSlot(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteSlot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/categories", h.CreateCategory)
	router.GET("/api/v1/categories", h.ListCategories)
	router.GET("/api/v1/categories/id/:id", h.GetCategory)
	router.PATCH("/api/v1/categories/id/:id", h.UpdateCategory)
	router.POST("/api/v1/time-windows", h.CreateTimeWindow)
	router.GET("/api/v1/time-windows", h.ListTimeWindows)
	router.PATCH("/api/v1/time-windows/id/:id", h.UpdateTimeWindow)
	router.POST("/api/v1/slots", h.UpsertSlot)
	router.DELETE("/api/v1/slots/id/:id", h.DeleteSlot)
}
