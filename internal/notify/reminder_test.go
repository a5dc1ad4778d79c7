package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitanest/vitanest-platform/internal/appointments"
)

type fakeApptSource struct {
	upcoming []appointments.Appointment
	err      error
	reminded []string
}

func (f *fakeApptSource) Upcoming(context.Context, time.Time, time.Duration) ([]appointments.Appointment, error) {
	return f.upcoming, f.err
}

func (f *fakeApptSource) MarkReminded(_ context.Context, id string) error {
	f.reminded = append(f.reminded, id)
	return nil
}

type fakeDirectory struct {
	emails map[string]string
}

func (f fakeDirectory) Lookup(_ context.Context, userID string) (string, string, error) {
	email, ok := f.emails[userID]
	if !ok {
		return "", "", ErrUnknownUser
	}
	return email, "Test User", nil
}

type fakeSender struct {
	sent []EmailMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testAppointment(id, userID string) appointments.Appointment {
	return appointments.Appointment{
		ID:       id,
		UserID:   userID,
		Title:    "Annual physical",
		StartsAt: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		Doctor:   "Dr. Lee",
		Type:     appointments.TypeCheckup,
		Status:   appointments.StatusScheduled,
	}
}

func TestSendDueSendsAndMarks(t *testing.T) {
	appts := &fakeApptSource{upcoming: []appointments.Appointment{testAppointment("a1", "u1")}}
	sender := &fakeSender{}
	svc := NewReminderService(appts, fakeDirectory{emails: map[string]string{"u1": "u1@example.com"}}, sender, time.Hour, nil)

	sent, err := svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"a1"}, appts.reminded)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "u1@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Annual physical")
	assert.Contains(t, msg.Body, "Dr. Lee")
}

func TestSendDueSkipsUnknownUser(t *testing.T) {
	appts := &fakeApptSource{upcoming: []appointments.Appointment{
		testAppointment("a1", "ghost"),
		testAppointment("a2", "u1"),
	}}
	sender := &fakeSender{}
	svc := NewReminderService(appts, fakeDirectory{emails: map[string]string{"u1": "u1@example.com"}}, sender, time.Hour, nil)

	sent, err := svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"a2"}, appts.reminded)
}

func TestSendDueDoesNotMarkOnSendFailure(t *testing.T) {
	appts := &fakeApptSource{upcoming: []appointments.Appointment{testAppointment("a1", "u1")}}
	sender := &fakeSender{err: errors.New("smtp down")}
	svc := NewReminderService(appts, fakeDirectory{emails: map[string]string{"u1": "u1@example.com"}}, sender, time.Hour, nil)

	sent, err := svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, appts.reminded)
}

func TestSendDuePropagatesSourceError(t *testing.T) {
	appts := &fakeApptSource{err: errors.New("db down")}
	svc := NewReminderService(appts, fakeDirectory{}, &fakeSender{}, time.Hour, nil)

	_, err := svc.SendDue(context.Background())
	assert.Error(t, err)
}
