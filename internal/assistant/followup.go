package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitanest/vitanest-platform/internal/observability/metrics"
	"github.com/vitanest/vitanest-platform/internal/profile"
)

// FollowUpJob schedules one proactive tip after a chat exchange. Message is
// the user's original message; the worker keys the tip off its keywords.
type FollowUpJob struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Message string    `json:"message"`
	DueAt   time.Time `json:"due_at"`
}

// FollowUpPublisher enqueues follow-up jobs with a fixed delivery delay.
type FollowUpPublisher struct {
	queue  Queue
	delay  time.Duration
	logger *slog.Logger
}

func NewFollowUpPublisher(queue Queue, delay time.Duration, logger *slog.Logger) *FollowUpPublisher {
	if queue == nil {
		panic("assistant: follow-up queue cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FollowUpPublisher{queue: queue, delay: delay, logger: logger}
}

func (p *FollowUpPublisher) Publish(ctx context.Context, userID, message string) error {
	if userID == "" {
		return errors.New("assistant: follow-up user id required")
	}

	job, body, err := encodeFollowUpJob(FollowUpJob{
		UserID:  userID,
		Message: message,
		DueAt:   time.Now().UTC().Add(p.delay),
	})
	if err != nil {
		return err
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("assistant: failed to publish follow-up job: %w", err)
	}

	p.logger.Debug("follow-up scheduled", "job_id", job.ID, "user_id", userID, "due_at", job.DueAt)
	return nil
}

// Follow-up tip fragments.
const (
	painFollowUp = "Follow-up tip: For pain management, consider keeping a pain diary to track triggers, intensity, and what helps. This information can be valuable for your healthcare provider.\n\nWould you like me to help you create a personalized pain management plan?"

	sleepFollowUp = "Sleep optimization tip: Your sleep environment matters! Keep your bedroom cool (60-67F), dark, and quiet. Consider a consistent bedtime routine starting 1 hour before sleep.\n\nI can help you create a personalized sleep improvement plan if you're interested!"

	stressFollowUp = "Stress management insight: Did you know that just 5 minutes of deep breathing can activate your parasympathetic nervous system and reduce stress hormones?\n\nTry the 4-7-8 technique: Inhale for 4, hold for 7, exhale for 8. Would you like more personalized stress management strategies?"

	medicationFollowUp = "Medication safety reminder: Always keep an updated list of your medications, including dosages and timing. This is crucial for emergency situations and when seeing new healthcare providers.\n\nI can help you organize your medication schedule if needed!"

	exerciseFollowUpIntro = "Exercise motivation: Even 10 minutes of movement can boost your mood and energy! The key is consistency over intensity.\n\n"
	exerciseFollowUpAge   = "At your age, balance and strength exercises are especially beneficial. "
	exerciseFollowUpAsk   = "Would you like a personalized exercise plan based on your health profile?"

	morningFollowUp   = "Morning health tip: Starting your day with a glass of water and some light stretching can boost your energy and set a positive tone for the day!"
	afternoonFollowUp = "Afternoon wellness check: How's your posture right now? Take a moment to sit up straight, roll your shoulders back, and take a deep breath!"
	eveningFollowUp   = "Evening wind-down tip: Consider dimming your lights and avoiding screens 1-2 hours before bedtime for better sleep quality."
)

// FollowUpTip composes the proactive tip for a delivered job. The keyword
// buckets are checked in order and the first hit wins; with no hit the tip
// falls back to time of day. A conditions note is appended when the profile
// lists any.
func FollowUpTip(message string, p *profile.HealthProfile, now time.Time) string {
	lower := strings.ToLower(message)
	var tip string

	switch {
	case strings.Contains(lower, "pain") || strings.Contains(lower, "hurt"):
		tip = painFollowUp
	case strings.Contains(lower, "sleep") || strings.Contains(lower, "tired"):
		tip = sleepFollowUp
	case strings.Contains(lower, "stress") || strings.Contains(lower, "anxiety"):
		tip = stressFollowUp
	case strings.Contains(lower, "medication") || strings.Contains(lower, "medicine"):
		tip = medicationFollowUp
	case strings.Contains(lower, "exercise") || strings.Contains(lower, "workout"):
		tip = exerciseFollowUpIntro
		if p != nil && p.Age > 50 {
			tip += exerciseFollowUpAge
		}
		tip += exerciseFollowUpAsk
	default:
		switch hour := now.Hour(); {
		case hour < 12:
			tip = morningFollowUp
		case hour < 17:
			tip = afternoonFollowUp
		default:
			tip = eveningFollowUp
		}
	}

	if p != nil && len(p.Conditions) > 0 {
		tip += fmt.Sprintf("\n\nPersonalized note: Given your %s, I'm always here to provide condition-specific guidance and support.",
			strings.Join(p.Conditions, " and "))
	}
	return tip
}

type historyAppender interface {
	Append(ctx context.Context, msg Message) error
}

type profileSource interface {
	Get(ctx context.Context, userID string) (*profile.HealthProfile, error)
}

// FollowUpWorker drains the follow-up queue and appends tips to chat history.
type FollowUpWorker struct {
	queue    Queue
	history  historyAppender
	profiles profileSource
	metrics  *metrics.ChatMetrics
	logger   *slog.Logger
	now      func() time.Time
}

func NewFollowUpWorker(queue Queue, history historyAppender, profiles profileSource, chatMetrics *metrics.ChatMetrics, logger *slog.Logger) *FollowUpWorker {
	if queue == nil {
		panic("assistant: follow-up worker queue cannot be nil")
	}
	if history == nil {
		panic("assistant: follow-up worker history cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FollowUpWorker{
		queue:    queue,
		history:  history,
		profiles: profiles,
		metrics:  chatMetrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run polls the queue until ctx is canceled. Receive errors back off briefly
// rather than terminating the worker.
func (w *FollowUpWorker) Run(ctx context.Context) error {
	for {
		msgs, err := w.queue.Receive(ctx, 10, 5)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("follow-up receive failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		for _, msg := range msgs {
			w.process(ctx, msg)
		}
	}
}

func (w *FollowUpWorker) process(ctx context.Context, msg QueueMessage) {
	var job FollowUpJob
	if err := json.Unmarshal([]byte(msg.Body), &job); err != nil {
		w.logger.Error("discarding malformed follow-up job", "message_id", msg.ID, "error", err)
		w.metrics.ObserveFollowUp("malformed")
		w.deleteMessage(ctx, msg)
		return
	}

	if wait := job.DueAt.Sub(w.now()); wait > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}

	if err := w.deliver(ctx, job); err != nil {
		w.logger.Error("follow-up delivery failed", "job_id", job.ID, "user_id", job.UserID, "error", err)
		w.metrics.ObserveFollowUp("failed")
		// Leave the message for redelivery.
		return
	}

	w.metrics.ObserveFollowUp("delivered")
	w.deleteMessage(ctx, msg)
}

func (w *FollowUpWorker) deliver(ctx context.Context, job FollowUpJob) error {
	var p *profile.HealthProfile
	if w.profiles != nil {
		loaded, err := w.profiles.Get(ctx, job.UserID)
		if err != nil {
			// Tip still goes out, just without personalization.
			w.logger.Warn("follow-up profile load failed", "user_id", job.UserID, "error", err)
		} else {
			p = loaded
		}
	}

	tip := FollowUpTip(job.Message, p, w.now())
	return w.history.Append(ctx, Message{
		ID:        uuid.NewString(),
		UserID:    job.UserID,
		Content:   tip,
		Role:      RoleAssistant,
		Type:      MessageTypeText,
		CreatedAt: w.now(),
	})
}

func (w *FollowUpWorker) deleteMessage(ctx context.Context, msg QueueMessage) {
	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		w.logger.Warn("failed to delete follow-up message", "message_id", msg.ID, "error", err)
	}
}
