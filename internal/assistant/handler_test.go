package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpmiddleware "github.com/vitanest/vitanest-platform/internal/http/middleware"
)

func newTestHandler(t *testing.T) (*Handler, *fakeHistory) {
	t.Helper()
	history := newFakeHistory()
	service := NewService(history, nil)
	service.pick = func(int) int { return 0 }
	return NewHandler(service, nil), history
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(httpmiddleware.WithUserID(context.Background(), "u1"))
}

func TestHandlerSendMessage(t *testing.T) {
	handler, history := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.SendMessage(rec, authedRequest(http.MethodPost, "/chat/message", `{"content":"I have a headache"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var reply Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Contains(t, reply.Content, symptomKnowledge["headache"].Advice)
	assert.Len(t, history.msgs["u1"], 2)
}

func TestHandlerSendMessageValidation(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.SendMessage(rec, authedRequest(http.MethodPost, "/chat/message", `{"content":"  "}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.SendMessage(rec, authedRequest(http.MethodPost, "/chat/message", `not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerSendMessageRequiresIdentity(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.SendMessage(rec, httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"content":"hi"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerHistoryReturnsWelcomeForNewUser(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.History(rec, authedRequest(http.MethodGet, "/chat/history", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Messages []Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, RoleAssistant, resp.Messages[0].Role)
}

func TestHandlerClearHistory(t *testing.T) {
	handler, history := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.SendMessage(rec, authedRequest(http.MethodPost, "/chat/message", `{"content":"hello"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, history.msgs["u1"])

	rec = httptest.NewRecorder()
	handler.ClearHistory(rec, authedRequest(http.MethodDelete, "/chat/history", ""))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, history.msgs["u1"])
}
