package assistant

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	MessageTypeText  = "text"
	MessageTypeAudio = "audio"
	MessageTypeVideo = "video"
)

// Message is one entry in a user's chat history. Messages are immutable once
// appended; the history is append-only and ordered by CreatedAt.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
