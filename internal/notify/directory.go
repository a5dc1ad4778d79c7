package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrUnknownUser is returned when a user id has no account row.
var ErrUnknownUser = errors.New("notify: unknown user")

type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Directory resolves user ids to email addresses for outbound mail.
type Directory struct {
	db pgxQuerier
}

func NewDirectory(db pgxQuerier) *Directory {
	if db == nil {
		panic("notify: directory db cannot be nil")
	}
	return &Directory{db: db}
}

func (d *Directory) Lookup(ctx context.Context, userID string) (email, name string, err error) {
	err = d.db.QueryRow(ctx, `SELECT email, name FROM users WHERE id = $1`, userID).Scan(&email, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrUnknownUser
		}
		return "", "", fmt.Errorf("notify: failed to look up user: %w", err)
	}
	return email, name, nil
}
