package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vitanest/vitanest-platform/pkg/logging"
)

const defaultBaseURL = "https://tavusapi.com/v2"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("video: tavus api key not configured")

// Video is one generation job as reported by Tavus.
type Video struct {
	VideoID     string `json:"video_id"`
	VideoName   string `json:"video_name"`
	Status      string `json:"status"`
	DownloadURL string `json:"download_url,omitempty"`
	StreamURL   string `json:"stream_url,omitempty"`
}

// Persona is a selectable presenter.
type Persona struct {
	PersonaID   string `json:"persona_id"`
	PersonaName string `json:"persona_name"`
}

// Client wraps the Tavus video generation API.
type Client struct {
	apiKey     string
	baseURL    string
	callback   string
	httpClient *http.Client
	logger     *logging.Logger
	now        func() time.Time
}

type ClientConfig struct {
	APIKey      string
	BaseURL     string
	CallbackURL string
}

func NewClient(cfg ClientConfig, logger *logging.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		callback:   cfg.CallbackURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Enabled reports whether video generation is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Script     string         `json:"script"`
	PersonaID  string         `json:"persona_id"`
	Callback   string         `json:"callback_url,omitempty"`
	VideoName  string         `json:"video_name"`
	Properties map[string]any `json:"properties"`
}

// Generate submits a script for avatar video generation and returns the
// pending job.
func (c *Client) Generate(ctx context.Context, script, personaID string) (*Video, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	if script == "" {
		return nil, errors.New("video: script is required")
	}
	if personaID == "" {
		personaID = "default"
	}

	payload := generateRequest{
		Script:    script,
		PersonaID: personaID,
		Callback:  c.callback,
		VideoName: fmt.Sprintf("Health_Video_%d", c.now().UnixMilli()),
		Properties: map[string]any{
			"voice_settings": map[string]any{
				"stability":        0.8,
				"similarity_boost": 0.7,
			},
		},
	}

	var v Video
	if err := c.do(ctx, http.MethodPost, "/videos", payload, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Status fetches the current state of a generation job.
func (c *Client) Status(ctx context.Context, videoID string) (*Video, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	if videoID == "" {
		return nil, errors.New("video: video id is required")
	}

	var v Video
	if err := c.do(ctx, http.MethodGet, "/videos/"+url.PathEscape(videoID), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Personas lists the available presenters.
func (c *Client) Personas(ctx context.Context) ([]Persona, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	var decoded struct {
		Data []Persona `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/personas", nil, &decoded); err != nil {
		return nil, err
	}
	return decoded.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("video: failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("video: failed to build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("video: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New("video: invalid tavus api key")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("video: tavus returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("video: failed to decode response: %w", err)
	}
	return nil
}
