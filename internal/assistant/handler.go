package assistant

import (
	"encoding/json"
	"net/http"
	"strings"

	httpmiddleware "github.com/vitanest/vitanest-platform/internal/http/middleware"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

// Handler exposes the chat engine over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("assistant: handler service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage handles POST /chat/message.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Message content is required", http.StatusBadRequest)
		return
	}

	reply, err := h.service.HandleMessage(r.Context(), userID, req.Content)
	if err != nil {
		h.logger.Error("failed to handle chat message", "error", err, "user_id", userID)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, reply)
}

// History handles GET /chat/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	msgs, err := h.service.History(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load chat history", "error", err, "user_id", userID)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// ClearHistory handles DELETE /chat/history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		h.logger.Error("failed to clear chat history", "error", err, "user_id", userID)
		http.Error(w, "Failed to clear history", http.StatusInternalServerError)
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
