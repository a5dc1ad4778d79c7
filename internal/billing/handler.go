package billing

import (
	"encoding/json"
	"net/http"

	httpmiddleware "github.com/vitanest/vitanest-platform/internal/http/middleware"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

// Handler exposes subscription state over HTTP.
type Handler struct {
	client *Client
	logger *logging.Logger
}

func NewHandler(client *Client, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{client: client, logger: logger}
}

// Subscription handles GET /billing/subscription.
func (h *Handler) Subscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	sub, err := h.client.Subscription(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to resolve subscription", "error", err, "user_id", userID)
		http.Error(w, "Failed to resolve subscription", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(sub); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
