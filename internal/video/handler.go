package video

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

type premiumChecker interface {
	IsPremium(ctx context.Context, userID string) bool
}

// Handler exposes avatar video generation over HTTP. Like voice, it is a
// paid feature.
type Handler struct {
	client  *Client
	billing premiumChecker
	logger  *logging.Logger
}

func NewHandler(client *Client, billing premiumChecker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{client: client, billing: billing, logger: logger}
}

type generateVideoRequest struct {
	Script    string `json:"script"`
	PersonaID string `json:"persona_id"`
}

// Generate handles POST /video/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}
	if h.billing != nil && !h.billing.IsPremium(r.Context(), userID) {
		http.Error(w, "Video generation requires a premium subscription", http.StatusPaymentRequired)
		return
	}

	var req generateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Script) == "" {
		http.Error(w, "Script is required", http.StatusBadRequest)
		return
	}

	v, err := h.client.Generate(r.Context(), req.Script, req.PersonaID)
	if err != nil {
		h.respondError(w, err, userID, "failed to generate video")
		return
	}
	h.writeJSON(w, http.StatusAccepted, v)
}

// Status handles GET /video/{id}.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	v, err := h.client.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, userID, "failed to fetch video status")
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}

// Personas handles GET /video/personas.
func (h *Handler) Personas(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	personas, err := h.client.Personas(r.Context())
	if err != nil {
		h.respondError(w, err, userID, "failed to list personas")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"personas": personas})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, userID, msg string) {
	if errors.Is(err, ErrNotConfigured) {
		http.Error(w, "Video generation is not available", http.StatusServiceUnavailable)
		return
	}
	h.logger.Error(msg, "error", err, "user_id", userID)
	http.Error(w, "Video provider error", http.StatusBadGateway)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
