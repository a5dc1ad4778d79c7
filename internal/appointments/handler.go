package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/vitanest/vitanest-platform/internal/http/middleware"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

type healthRecorder interface {
	RecordHealthData(ctx context.Context, userID, dataType string, payload any)
}

// Handler exposes appointments over HTTP.
type Handler struct {
	store    *Store
	recorder healthRecorder
	logger   *logging.Logger
}

func NewHandler(store *Store, recorder healthRecorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, recorder: recorder, logger: logger}
}

// List handles GET /appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	appts, err := h.store.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "user_id", userID)
		http.Error(w, "Failed to list appointments", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

// Create handles POST /appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	var a Appointment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	a.UserID = userID
	if strings.TrimSpace(a.Title) == "" {
		http.Error(w, "Appointment title is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Create(r.Context(), &a); err != nil {
		h.logger.Error("failed to create appointment", "error", err, "user_id", userID)
		http.Error(w, "Failed to create appointment", http.StatusInternalServerError)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordHealthData(r.Context(), userID, "appointment", a)
	}

	h.writeJSON(w, http.StatusCreated, &a)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /appointments/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validStatus(req.Status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateStatus(r.Context(), userID, chi.URLParam(r, "id"), req.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Appointment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update appointment status", "error", err, "user_id", userID)
		http.Error(w, "Failed to update appointment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /appointments/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	if err := h.store.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Appointment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete appointment", "error", err, "user_id", userID)
		http.Error(w, "Failed to delete appointment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
