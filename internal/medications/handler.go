package medications

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

// healthRecorder mirrors health events onto an external ledger. Recording is
// fire-and-forget; implementations log failures instead of returning them.
type healthRecorder interface {
	RecordHealthData(ctx context.Context, userID, dataType string, payload any)
}

// Handler exposes the medication list over HTTP.
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

// List handles GET /medications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	meds, err := h.store.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list medications", "error", err, "user_id", userID)
		http.Error(w, "Failed to list medications", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"medications": meds})
}

// Create handles POST /medications.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	var m Medication
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	m.UserID = userID
	if strings.TrimSpace(m.Name) == "" {
		http.Error(w, "Medication name is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Create(r.Context(), &m); err != nil {
		h.logger.Error("failed to create medication", "error", err, "user_id", userID)
		http.Error(w, "Failed to create medication", http.StatusInternalServerError)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordHealthData(r.Context(), userID, "medication", m)
	}

	h.writeJSON(w, http.StatusCreated, &m)
}

// Update handles PUT /medications/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	var m Medication
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	m.ID = chi.URLParam(r, "id")
	m.UserID = userID

	if err := h.store.Update(r.Context(), &m); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Medication not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update medication", "error", err, "user_id", userID)
		http.Error(w, "Failed to update medication", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, &m)
}

// Delete handles DELETE /medications/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	if err := h.store.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Medication not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete medication", "error", err, "user_id", userID)
		http.Error(w, "Failed to delete medication", http.StatusInternalServerError)
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
