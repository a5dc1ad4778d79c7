package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestStoreCreateDefaults(t *testing.T) {
	store, mock := newTestStore(t)
	a := &Appointment{
		UserID:   "u1",
		Title:    "Annual physical",
		StartsAt: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		Doctor:   "Dr. Lee",
	}

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "u1", "Annual physical", a.StartsAt, "Dr. Lee",
			TypeConsultation, StatusScheduled, "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Create(context.Background(), a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, TypeConsultation, a.Type)
	assert.Equal(t, StatusScheduled, a.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateRejectsInvalidType(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Create(context.Background(), &Appointment{
		UserID: "u1",
		Title:  "Visit",
		Type:   "house-call",
	})
	assert.Error(t, err)
}

func TestStoreUpcomingFiltersWindow(t *testing.T) {
	store, mock := newTestStore(t)
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	mock.ExpectQuery("FROM appointments").
		WithArgs(StatusScheduled, from, from.Add(window)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "title", "starts_at", "doctor", "type", "status", "notes", "created_at",
		}).AddRow("a1", "u1", "Checkup", from.Add(2*time.Hour), "Dr. Lee",
			TypeCheckup, StatusScheduled, "", from))

	appts, err := store.Upcoming(context.Background(), from, window)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "Checkup", appts[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateStatus(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("UPDATE appointments").
		WithArgs("a1", "u1", StatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.UpdateStatus(context.Background(), "u1", "a1", StatusCancelled))

	assert.Error(t, store.UpdateStatus(context.Background(), "u1", "a1", "postponed"))

	mock.ExpectExec("UPDATE appointments").
		WithArgs("missing", "u1", StatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, store.UpdateStatus(context.Background(), "u1", "missing", StatusCompleted), ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("DELETE FROM appointments").
		WithArgs("a1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, store.Delete(context.Background(), "u1", "a1"))
}
