package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitanest/vitanest-platform/internal/observability/metrics"
	"github.com/vitanest/vitanest-platform/internal/profile"
)

// llmHistoryWindow caps how many stored messages are replayed to the LLM.
const llmHistoryWindow = 20

const apologyReply = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."

const welcomeIntro = `Hello! I'm your personal health assistant.

I'm here to help you with:
- Symptom analysis and health concerns
- Medication guidance and interactions
- Personalized health advice based on your profile
- Wellness recommendations for your lifestyle`

type historyStore interface {
	Append(ctx context.Context, msg Message) error
	History(ctx context.Context, userID string) ([]Message, error)
	Clear(ctx context.Context, userID string) error
}

type followUpScheduler interface {
	Publish(ctx context.Context, userID, message string) error
}

// Service is the chat engine. The rule-based composer always produces a
// reply; a configured LLM enriches it and falls back to the composed text on
// any failure. The LLM, profile source, and follow-up scheduler are all
// optional.
type Service struct {
	history   historyStore
	profiles  profileSource
	llm       LLMClient
	followUps followUpScheduler
	metrics   *metrics.ChatMetrics
	logger    *slog.Logger

	llmModel       string
	llmMaxTokens   int32
	llmTemperature float32

	now  func() time.Time
	pick func(n int) int
}

type ServiceOption func(*Service)

func WithLLM(client LLMClient, model string, maxTokens int32, temperature float32) ServiceOption {
	return func(s *Service) {
		s.llm = client
		s.llmModel = model
		s.llmMaxTokens = maxTokens
		s.llmTemperature = temperature
	}
}

func WithProfiles(profiles profileSource) ServiceOption {
	return func(s *Service) { s.profiles = profiles }
}

func WithFollowUps(scheduler followUpScheduler) ServiceOption {
	return func(s *Service) { s.followUps = scheduler }
}

func WithMetrics(m *metrics.ChatMetrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func NewService(history historyStore, logger *slog.Logger, opts ...ServiceOption) *Service {
	if history == nil {
		panic("assistant: history store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		history: history,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		pick:    rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleMessage stores the user's message, composes a reply, stores it, and
// schedules a follow-up tip. The user message append is the only hard
// failure; everything after it degrades instead of erroring so the user
// never loses a stored message without a reply.
func (s *Service) HandleMessage(ctx context.Context, userID, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if userID == "" {
		return Message{}, errors.New("assistant: user id required")
	}
	if content == "" {
		return Message{}, errors.New("assistant: message content required")
	}

	userMsg := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		Role:      RoleUser,
		Type:      MessageTypeText,
		CreatedAt: s.now(),
	}
	if err := s.history.Append(ctx, userMsg); err != nil {
		return Message{}, fmt.Errorf("assistant: failed to store user message: %w", err)
	}
	s.metrics.ObserveMessage(RoleUser)

	started := s.now()
	replyText := s.composeReply(ctx, userID, content)
	s.metrics.ObserveComposeLatency(s.now().Sub(started).Seconds())

	reply := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   replyText,
		Role:      RoleAssistant,
		Type:      MessageTypeText,
		CreatedAt: s.now(),
	}
	if err := s.history.Append(ctx, reply); err != nil {
		s.logger.Error("failed to store assistant reply", "user_id", userID, "error", err)
		reply.Content = apologyReply
		return reply, nil
	}
	s.metrics.ObserveMessage(RoleAssistant)

	if s.followUps != nil {
		if err := s.followUps.Publish(ctx, userID, content); err != nil {
			s.logger.Warn("failed to schedule follow-up", "user_id", userID, "error", err)
		}
	}

	return reply, nil
}

// History returns the user's chat history. A user with no messages gets a
// welcome message appended and returned, so the first page is never empty.
func (s *Service) History(ctx context.Context, userID string) ([]Message, error) {
	if userID == "" {
		return nil, errors.New("assistant: user id required")
	}

	msgs, err := s.history.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		return msgs, nil
	}

	welcome := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   s.welcomeMessage(ctx, userID),
		Role:      RoleAssistant,
		Type:      MessageTypeText,
		CreatedAt: s.now(),
	}
	if err := s.history.Append(ctx, welcome); err != nil {
		s.logger.Warn("failed to store welcome message", "user_id", userID, "error", err)
	}
	return []Message{welcome}, nil
}

// Clear deletes the user's chat history.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("assistant: user id required")
	}
	return s.history.Clear(ctx, userID)
}

func (s *Service) composeReply(ctx context.Context, userID, content string) string {
	p := s.loadProfile(ctx, userID)
	classification := Classify(content)
	ruleReply := Compose(classification, p, s.now(), s.pick)

	if s.llm == nil {
		return ruleReply
	}

	// High-urgency replies bypass the LLM so the urgent-care guidance is
	// delivered verbatim.
	if classification.Urgency == UrgencyHigh {
		return ruleReply
	}

	text, err := s.completeLLM(ctx, userID, content, p, ruleReply)
	if err != nil {
		s.logger.Warn("LLM completion failed, using composed reply", "user_id", userID, "error", err)
		s.metrics.ObserveLLMFallback("llm_error")
		return ruleReply
	}
	if strings.TrimSpace(text) == "" {
		s.metrics.ObserveLLMFallback("empty_response")
		return ruleReply
	}
	return text
}

func (s *Service) completeLLM(ctx context.Context, userID, content string, p *profile.HealthProfile, ruleReply string) (string, error) {
	msgs, err := s.history.History(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(msgs) > llmHistoryWindow {
		msgs = msgs[len(msgs)-llmHistoryWindow:]
	}

	chat := make([]ChatMessage, 0, len(msgs)+1)
	for _, m := range msgs {
		chat = append(chat, ChatMessage{Role: m.Role, Content: m.Content})
	}
	// The user message was already appended to history; make sure the
	// conversation ends with it exactly once.
	if len(chat) == 0 || chat[len(chat)-1].Content != content || chat[len(chat)-1].Role != ChatRoleUser {
		chat = append(chat, ChatMessage{Role: ChatRoleUser, Content: content})
	}

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Model:       s.llmModel,
		System:      BuildSystemPrompt(p, ruleReply),
		Messages:    chat,
		MaxTokens:   s.llmMaxTokens,
		Temperature: s.llmTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (s *Service) loadProfile(ctx context.Context, userID string) *profile.HealthProfile {
	if s.profiles == nil {
		return nil
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load health profile", "user_id", userID, "error", err)
		return nil
	}
	return p
}

func (s *Service) welcomeMessage(ctx context.Context, userID string) string {
	welcome := welcomeIntro
	if p := s.loadProfile(ctx, userID); p != nil && len(p.Conditions) > 0 {
		welcome += fmt.Sprintf("\n\nI see you have %s. I'll keep this in mind when providing advice.",
			strings.Join(p.Conditions, ", "))
	} else {
		welcome += "\n\nFeel free to share any health concerns or questions you have."
	}
	welcome += "\n\nWhat would you like to discuss today?"
	return welcome
}
