package video

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDisabled(t *testing.T) {
	c := NewClient(ClientConfig{}, nil)
	assert.False(t, c.Enabled())

	_, err := c.Generate(context.Background(), "script", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Status(context.Background(), "v1")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Personas(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "stay hydrated", req["script"])
		assert.Equal(t, "default", req["persona_id"])

		_, _ = w.Write([]byte(`{"video_id":"v1","status":"queued"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)
	v, err := c.Generate(context.Background(), "stay hydrated", "")
	require.NoError(t, err)
	assert.Equal(t, "v1", v.VideoID)
	assert.Equal(t, "queued", v.Status)
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos/v1", r.URL.Path)
		_, _ = w.Write([]byte(`{"video_id":"v1","status":"ready","download_url":"https://cdn.example/v1.mp4"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)
	v, err := c.Status(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "ready", v.Status)
	assert.NotEmpty(t, v.DownloadURL)
}

func TestPersonas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/personas", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"persona_id":"p1","persona_name":"Dr. Ava"}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)
	personas, err := c.Personas(context.Background())
	require.NoError(t, err)
	require.Len(t, personas, 1)
	assert.Equal(t, "Dr. Ava", personas[0].PersonaName)
}

func TestInvalidKeySurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIKey: "bad-key", BaseURL: srv.URL}, nil)
	_, err := c.Personas(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tavus api key")
}
