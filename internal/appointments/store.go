package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("appointments: not found")

type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists appointments in Postgres, scoped by user.
type Store struct {
	db pgxDB
}

func NewStore(db pgxDB) *Store {
	if db == nil {
		panic("appointments: store db cannot be nil")
	}
	return &Store{db: db}
}

func (s *Store) List(ctx context.Context, userID string) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, title, starts_at, doctor, type, status, notes, created_at
		FROM appointments
		WHERE user_id = $1
		ORDER BY starts_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to list: %w", err)
	}
	defer rows.Close()

	appts := []Appointment{}
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.StartsAt, &a.Doctor,
			&a.Type, &a.Status, &a.Notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: failed to scan: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: failed to read rows: %w", err)
	}
	return appts, nil
}

// Upcoming returns scheduled, not yet reminded appointments starting inside
// the window. The reminder service uses it to decide who gets an email.
func (s *Store) Upcoming(ctx context.Context, from time.Time, window time.Duration) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, title, starts_at, doctor, type, status, notes, created_at
		FROM appointments
		WHERE status = $1 AND reminder_sent = FALSE AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at ASC
	`, StatusScheduled, from, from.Add(window))
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to list upcoming: %w", err)
	}
	defer rows.Close()

	appts := []Appointment{}
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.StartsAt, &a.Doctor,
			&a.Type, &a.Status, &a.Notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: failed to scan: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: failed to read rows: %w", err)
	}
	return appts, nil
}

func (s *Store) Create(ctx context.Context, a *Appointment) error {
	if a == nil {
		return errors.New("appointments: appointment cannot be nil")
	}
	if a.UserID == "" {
		return errors.New("appointments: user id required")
	}
	if a.Title == "" {
		return errors.New("appointments: title required")
	}
	if a.Type == "" {
		a.Type = TypeConsultation
	}
	if !validType(a.Type) {
		return fmt.Errorf("appointments: invalid type %q", a.Type)
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if !validStatus(a.Status) {
		return fmt.Errorf("appointments: invalid status %q", a.Status)
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO appointments (id, user_id, title, starts_at, doctor, type, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.UserID, a.Title, a.StartsAt, a.Doctor, a.Type, a.Status, a.Notes, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("appointments: failed to create: %w", err)
	}
	return nil
}

// MarkReminded records that a reminder email went out, so the next reminder
// pass skips the appointment.
func (s *Store) MarkReminded(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `UPDATE appointments SET reminder_sent = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("appointments: failed to mark reminded: %w", err)
	}
	return nil
}

// UpdateStatus transitions an appointment to completed or cancelled.
func (s *Store) UpdateStatus(ctx context.Context, userID, id, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("appointments: invalid status %q", status)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE appointments SET status = $3 WHERE id = $1 AND user_id = $2
	`, id, userID, status)
	if err != nil {
		return fmt.Errorf("appointments: failed to update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("appointments: failed to delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
