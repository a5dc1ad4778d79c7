package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/vitanest/vitanest-platform/internal/appointments"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

type appointmentSource interface {
	Upcoming(ctx context.Context, from time.Time, window time.Duration) ([]appointments.Appointment, error)
	MarkReminded(ctx context.Context, id string) error
}

type userDirectory interface {
	Lookup(ctx context.Context, userID string) (email, name string, err error)
}

// ReminderService emails users about appointments starting inside the
// configured window. Each appointment is reminded at most once.
type ReminderService struct {
	appts  appointmentSource
	users  userDirectory
	sender EmailSender
	window time.Duration
	logger *logging.Logger
	now    func() time.Time
}

func NewReminderService(appts appointmentSource, users userDirectory, sender EmailSender, window time.Duration, logger *logging.Logger) *ReminderService {
	if appts == nil {
		panic("notify: reminder appointment source cannot be nil")
	}
	if sender == nil {
		panic("notify: reminder email sender cannot be nil")
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReminderService{
		appts:  appts,
		users:  users,
		sender: sender,
		window: window,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run sends due reminders every interval until ctx is canceled.
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if sent, err := s.SendDue(ctx); err != nil {
				s.logger.Error("reminder pass failed", "error", err)
			} else if sent > 0 {
				s.logger.Info("appointment reminders sent", "count", sent)
			}
		}
	}
}

// SendDue performs one reminder pass and returns how many emails went out.
// Per-appointment failures are logged and skipped so one bad address does not
// block the rest of the batch.
func (s *ReminderService) SendDue(ctx context.Context) (int, error) {
	due, err := s.appts.Upcoming(ctx, s.now(), s.window)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, appt := range due {
		email, name, err := s.users.Lookup(ctx, appt.UserID)
		if err != nil {
			s.logger.Warn("skipping reminder, user lookup failed",
				"appointment_id", appt.ID, "user_id", appt.UserID, "error", err)
			continue
		}

		if err := s.sender.Send(ctx, reminderEmail(email, name, appt)); err != nil {
			s.logger.Error("failed to send reminder",
				"appointment_id", appt.ID, "user_id", appt.UserID, "error", err)
			continue
		}

		if err := s.appts.MarkReminded(ctx, appt.ID); err != nil {
			s.logger.Error("failed to mark appointment reminded",
				"appointment_id", appt.ID, "error", err)
		}
		sent++
	}
	return sent, nil
}

func reminderEmail(email, name string, appt appointments.Appointment) EmailMessage {
	when := appt.StartsAt.Format("Monday, January 2 at 3:04 PM MST")
	body := fmt.Sprintf("Hi %s,\n\nThis is a reminder about your upcoming appointment:\n\n%s\nWhen: %s\n",
		name, appt.Title, when)
	if appt.Doctor != "" {
		body += fmt.Sprintf("With: %s\n", appt.Doctor)
	}
	if appt.Notes != "" {
		body += fmt.Sprintf("Notes: %s\n", appt.Notes)
	}
	body += "\nStay healthy,\nVitaNest"

	return EmailMessage{
		To:      email,
		ToName:  name,
		Subject: fmt.Sprintf("Reminder: %s on %s", appt.Title, appt.StartsAt.Format("Jan 2")),
		Body:    body,
	}
}
