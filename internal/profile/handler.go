package profile

import (
	"encoding/json"
	"net/http"

	httpmiddleware "github.com/vitanest/vitanest-platform/internal/http/middleware"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

// Handler exposes the health profile over HTTP.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Get handles GET /profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	p, err := h.repo.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load profile", "error", err, "user_id", userID)
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	if p == nil {
		p = &HealthProfile{UserID: userID, Allergies: []string{}, Conditions: []string{}}
	}

	h.writeJSON(w, http.StatusOK, p)
}

// Put handles PUT /profile.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	var p HealthProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	p.UserID = userID
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if p.Conditions == nil {
		p.Conditions = []string{}
	}

	if err := h.repo.Upsert(r.Context(), &p); err != nil {
		h.logger.Error("failed to save profile", "error", err, "user_id", userID)
		http.Error(w, "Failed to save profile", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, &p)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
