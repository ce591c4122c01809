package printformathandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmlite/internal/domain/printformat"
	"hrmlite/internal/transport/http/api"
	"hrmlite/internal/transport/http/middleware"
)

type Handler struct {
	Service *printformat.Service
}

func NewHandler(service *printformat.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/print-formats", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{formatID}", h.handleGet)
		r.Put("/{formatID}", h.handleUpdate)
		r.Delete("/{formatID}", h.handleDelete)
		r.Post("/{formatID}/default", h.handleSetDefault)
	})
}

type formatPayload struct {
	Name      string `json:"name"`
	Body      string `json:"body"`
	IsDefault bool   `json:"isDefault"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload formatPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" || payload.Body == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "name and body are required", middleware.GetRequestID(r.Context()))
		return
	}

	format, err := h.Service.Create(r.Context(), payload.Name, payload.Body, payload.IsDefault)
	if err != nil {
		h.failFormat(w, r, err, "format_create_failed", "failed to create print format")
		return
	}
	api.Created(w, format, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	formats, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "format_list_failed", "failed to list print formats", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, formats, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	format, err := h.Service.Get(r.Context(), chi.URLParam(r, "formatID"))
	if err != nil {
		h.failFormat(w, r, err, "format_get_failed", "failed to load print format")
		return
	}
	api.Success(w, format, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload formatPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" || payload.Body == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "name and body are required", middleware.GetRequestID(r.Context()))
		return
	}

	format, err := h.Service.Update(r.Context(), chi.URLParam(r, "formatID"), payload.Name, payload.Body)
	if err != nil {
		h.failFormat(w, r, err, "format_update_failed", "failed to update print format")
		return
	}
	api.Success(w, format, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "formatID")); err != nil {
		h.failFormat(w, r, err, "format_delete_failed", "failed to delete print format")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetDefault(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SetDefault(r.Context(), chi.URLParam(r, "formatID")); err != nil {
		h.failFormat(w, r, err, "format_default_failed", "failed to set default print format")
		return
	}
	api.Success(w, map[string]string{"status": "default set"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failFormat(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, printformat.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, printformat.ErrInvalidTemplate):
		api.Fail(w, http.StatusBadRequest, "invalid_template", err.Error(), reqID)
	case errors.Is(err, printformat.ErrFormatInUse):
		api.Fail(w, http.StatusBadRequest, "format_in_use", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
