package webchat

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/vitanest/vitanest-platform/internal/assistant"
	httpmiddleware "github.com/vitanest/vitanest-platform/internal/http/middleware"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

// ChatService handles chat messages and history.
type ChatService interface {
	HandleMessage(ctx context.Context, userID, content string) (assistant.Message, error)
	History(ctx context.Context, userID string) ([]assistant.Message, error)
}

// Handler manages realtime chat connections. Each user has at most one
// active connection; a new connection replaces the old one.
type Handler struct {
	service   ChatService
	jwtSecret string
	logger    *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*wsConn // userID -> active connection
}

type wsConn struct {
	conn *websocket.Conn
	done chan struct{}
}

// InboundMessage is what the client sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the client.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "pong", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"` // "assistant" or "user"
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history pushes.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a realtime chat handler. When jwtSecret is empty
// (development), connections identify themselves with a "user" query
// parameter instead of a signed token.
func NewHandler(service ChatService, jwtSecret string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:   service,
		jwtSecret: jwtSecret,
		logger:    logger,
		sessions:  make(map[string]*wsConn),
	}
}

// HandleWebSocket upgrades to WebSocket and handles realtime messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

// identify resolves the user ID from the connection request. Browsers cannot
// set headers on websocket upgrades, so the token travels in the query
// string.
func (h *Handler) identify(r *http.Request) (string, bool) {
	if h.jwtSecret == "" {
		userID := strings.TrimSpace(r.URL.Query().Get("user"))
		return userID, userID != ""
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		return "", false
	}
	userID, err := httpmiddleware.ParseUserToken(h.jwtSecret, token)
	if err != nil {
		h.logger.Debug("webchat: rejected token", "error", err)
		return "", false
	}
	return userID, true
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	userID, ok := h.identify(r)
	if !ok {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "missing user identity"})
		return
	}

	// Send history if available
	if msgs, err := h.service.History(r.Context(), userID); err == nil && len(msgs) > 0 {
		history := make([]HistoryMessage, 0, len(msgs))
		for _, m := range msgs {
			history = append(history, HistoryMessage{
				Role:      m.Role,
				Text:      m.Content,
				Timestamp: m.CreatedAt.Format(time.RFC3339),
			})
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: history})
	}

	// Register connection
	wsc := &wsConn{conn: conn, done: make(chan struct{})}
	h.mu.Lock()
	h.sessions[userID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[userID] == wsc {
			delete(h.sessions, userID)
		}
		h.mu.Unlock()
		close(wsc.done)
	}()

	h.logger.Info("webchat: connection opened", "user_id", userID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "user_id", userID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		h.processMessage(r.Context(), userID, msg.Text)
	}
}

func (h *Handler) processMessage(ctx context.Context, userID, text string) {
	h.SendToUser(userID, OutboundMessage{Type: "typing"})

	reply, err := h.service.HandleMessage(ctx, userID, text)
	if err != nil {
		h.logger.Error("webchat: failed to handle message", "error", err, "user_id", userID)
		h.SendToUser(userID, OutboundMessage{
			Type: "error",
			Text: "Sorry, something went wrong. Please try again.",
		})
		return
	}

	h.SendToUser(userID, OutboundMessage{
		Type:      "message",
		Text:      reply.Content,
		Role:      reply.Role,
		Timestamp: reply.CreatedAt.Format(time.RFC3339),
	})
}

// SendToUser sends a message to a user's active WebSocket session, if any.
func (h *Handler) SendToUser(userID string, msg OutboundMessage) {
	h.mu.RLock()
	wsc, ok := h.sessions[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	_ = websocket.JSON.Send(wsc.conn, msg)
}
