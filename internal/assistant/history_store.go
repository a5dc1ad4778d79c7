package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const historyTTL = 24 * time.Hour

type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// HistoryStore persists chat messages in Postgres with a Redis mirror for hot
// reads. Postgres is the source of truth; the mirror is best-effort and
// rebuilt on miss. A nil Redis client disables the mirror entirely.
type HistoryStore struct {
	db     pgxDB
	redis  *redis.Client
	tracer trace.Tracer
	logger *slog.Logger
}

func NewHistoryStore(db pgxDB, redisClient *redis.Client, logger *slog.Logger) *HistoryStore {
	if db == nil {
		panic("assistant: history store db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStore{
		db:     db,
		redis:  redisClient,
		tracer: otel.Tracer("vitanest.internal.assistant.history"),
		logger: logger,
	}
}

// Append stores one message. The Postgres insert must succeed; a mirror
// failure is logged and swallowed so Redis outages never lose messages.
func (s *HistoryStore) Append(ctx context.Context, msg Message) error {
	ctx, span := s.tracer.Start(ctx, "assistant.history.append")
	defer span.End()

	if msg.UserID == "" {
		return errors.New("assistant: message user id required")
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO chat_messages (id, user_id, content, role, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, msg.ID, msg.UserID, msg.Content, msg.Role, msg.Type, msg.CreatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("assistant: failed to persist message: %w", err)
	}

	s.mirrorAppend(ctx, msg)
	return nil
}

// History returns the user's messages in append order. The Redis mirror is
// consulted first; on miss the full history is loaded from Postgres and the
// mirror repopulated.
func (s *HistoryStore) History(ctx context.Context, userID string) ([]Message, error) {
	ctx, span := s.tracer.Start(ctx, "assistant.history.load")
	defer span.End()

	if userID == "" {
		return nil, errors.New("assistant: user id required")
	}

	if msgs, ok := s.mirrorLoad(ctx, userID); ok {
		return msgs, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, content, role, type, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("assistant: failed to load history: %w", err)
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.Role, &m.Type, &m.CreatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("assistant: failed to scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("assistant: failed to read history rows: %w", err)
	}

	s.mirrorRebuild(ctx, userID, msgs)
	return msgs, nil
}

// Clear deletes the user's history from both stores.
func (s *HistoryStore) Clear(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "assistant.history.clear")
	defer span.End()

	if userID == "" {
		return errors.New("assistant: user id required")
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("assistant: failed to clear history: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, historyKey(userID)).Err(); err != nil {
			s.logger.Warn("failed to clear history mirror", "user_id", userID, "error", err)
		}
	}
	return nil
}

func (s *HistoryStore) mirrorAppend(ctx context.Context, msg Message) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("failed to marshal message for mirror", "error", err)
		return
	}
	key := historyKey(msg.UserID)

	// Only extend an existing mirror. Appending to a missing key would
	// create a partial history that later reads would trust.
	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}

	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("failed to mirror message", "user_id", msg.UserID, "error", err)
	}
}

func (s *HistoryStore) mirrorLoad(ctx context.Context, userID string) ([]Message, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.LRange(ctx, historyKey(userID), 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}

	msgs := make([]Message, 0, len(raw))
	for _, item := range raw {
		var m Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			s.logger.Warn("corrupt history mirror entry, falling back to database",
				"user_id", userID, "error", err)
			return nil, false
		}
		msgs = append(msgs, m)
	}
	return msgs, true
}

func (s *HistoryStore) mirrorRebuild(ctx context.Context, userID string, msgs []Message) {
	if s.redis == nil || len(msgs) == 0 {
		return
	}
	items := make([]any, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return
		}
		items = append(items, data)
	}

	key := historyKey(userID)
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, items...)
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("failed to rebuild history mirror", "user_id", userID, "error", err)
	}
}

func historyKey(userID string) string {
	return "chat_history:" + userID
}
