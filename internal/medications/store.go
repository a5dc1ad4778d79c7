package medications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a medication does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("medications: not found")

type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists medications in Postgres. All operations are scoped by user.
type Store struct {
	db pgxDB
}

func NewStore(db pgxDB) *Store {
	if db == nil {
		panic("medications: store db cannot be nil")
	}
	return &Store{db: db}
}

func (s *Store) List(ctx context.Context, userID string) ([]Medication, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, dosage, frequency, start_date, end_date, instructions, side_effects, created_at
		FROM medications
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("medications: failed to list: %w", err)
	}
	defer rows.Close()

	meds := []Medication{}
	for rows.Next() {
		var m Medication
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency,
			&m.StartDate, &m.EndDate, &m.Instructions, &m.SideEffects, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("medications: failed to scan: %w", err)
		}
		if m.SideEffects == nil {
			m.SideEffects = []string{}
		}
		meds = append(meds, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("medications: failed to read rows: %w", err)
	}
	return meds, nil
}

func (s *Store) Create(ctx context.Context, m *Medication) error {
	if m == nil {
		return errors.New("medications: medication cannot be nil")
	}
	if m.UserID == "" {
		return errors.New("medications: user id required")
	}
	if m.Name == "" {
		return errors.New("medications: name required")
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.SideEffects == nil {
		m.SideEffects = []string{}
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO medications (id, user_id, name, dosage, frequency, start_date, end_date, instructions, side_effects, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, m.ID, m.UserID, m.Name, m.Dosage, m.Frequency, m.StartDate, m.EndDate, m.Instructions, m.SideEffects, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("medications: failed to create: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, m *Medication) error {
	if m == nil {
		return errors.New("medications: medication cannot be nil")
	}
	if m.ID == "" || m.UserID == "" {
		return errors.New("medications: id and user id required")
	}
	if m.SideEffects == nil {
		m.SideEffects = []string{}
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE medications
		SET name = $3, dosage = $4, frequency = $5, start_date = $6, end_date = $7, instructions = $8, side_effects = $9
		WHERE id = $1 AND user_id = $2
	`, m.ID, m.UserID, m.Name, m.Dosage, m.Frequency, m.StartDate, m.EndDate, m.Instructions, m.SideEffects)
	if err != nil {
		return fmt.Errorf("medications: failed to update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM medications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("medications: failed to delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
