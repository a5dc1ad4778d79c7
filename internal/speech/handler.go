package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	httpmiddleware "github.com/vitanest/vitanest-platform/internal/http/middleware"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

type premiumChecker interface {
	IsPremium(ctx context.Context, userID string) bool
}

// Handler exposes speech synthesis over HTTP. Voice replies are a paid
// feature, so requests from free-tier users are rejected.
type Handler struct {
	synth   *Synthesizer
	store   *AudioStore
	billing premiumChecker
	logger  *logging.Logger
}

func NewHandler(synth *Synthesizer, store *AudioStore, billing premiumChecker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{synth: synth, store: store, billing: billing, logger: logger}
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

type synthesizeResponse struct {
	AudioKey *string `json:"audio_key"`
}

// Synthesize handles POST /speech/synthesize. A synthesis or upload failure
// is not an error to the caller: the response carries a null audio key and
// the client falls back to text.
func (h *Handler) Synthesize(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	if h.billing != nil && !h.billing.IsPremium(r.Context(), userID) {
		http.Error(w, "Voice replies require a premium subscription", http.StatusPaymentRequired)
		return
	}

	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}

	resp := synthesizeResponse{}
	if audio := h.synth.Synthesize(r.Context(), req.Text); len(audio) > 0 && h.store.Enabled() {
		key, err := h.store.Save(r.Context(), userID, audio)
		if err != nil {
			h.logger.Warn("failed to store synthesized audio", "error", err, "user_id", userID)
		} else {
			resp.AudioKey = &key
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
