package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vitanest/vitanest-platform/pkg/logging"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultVoiceID = "pNInz6obpgDQGcFmaJgB"
)

// Synthesizer turns reply text into spoken audio via ElevenLabs. Voice is a
// premium add-on, so synthesis is strictly best-effort: any failure returns
// nil audio with no error and the caller falls back to text only.
type Synthesizer struct {
	apiKey     string
	baseURL    string
	voiceID    string
	httpClient *http.Client
	logger     *logging.Logger
}

type SynthesizerConfig struct {
	APIKey  string
	BaseURL string
	VoiceID string
}

func NewSynthesizer(cfg SynthesizerConfig, logger *logging.Logger) *Synthesizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = defaultVoiceID
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Synthesizer{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		voiceID:    cfg.VoiceID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Enabled reports whether an API key is configured.
func (s *Synthesizer) Enabled() bool {
	return s.apiKey != ""
}

type synthesisRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings map[string]any `json:"voice_settings"`
}

// Synthesize returns MP3 audio for the given text, or nil on any failure.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) []byte {
	if !s.Enabled() || text == "" {
		return nil
	}

	payload, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: "eleven_monolingual_v1",
		VoiceSettings: map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	})
	if err != nil {
		s.logger.Warn("failed to encode synthesis request", "error", err)
		return nil
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", s.baseURL, url.PathEscape(s.voiceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		s.logger.Warn("failed to build synthesis request", "error", err)
		return nil
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("speech synthesis failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("speech synthesis returned error status", "status", resp.StatusCode)
		return nil
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Warn("failed to read synthesized audio", "error", err)
		return nil
	}
	if len(audio) == 0 {
		return nil
	}
	return audio
}
