package medications

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

func TestStoreCreateFillsDefaults(t *testing.T) {
	store, mock := newTestStore(t)
	m := &Medication{
		UserID:    "u1",
		Name:      "Aspirin",
		Dosage:    "81mg",
		Frequency: "daily",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO medications").
		WithArgs(pgxmock.AnyArg(), "u1", "Aspirin", "81mg", "daily",
			m.StartDate, pgxmock.AnyArg(), "", []string{}, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Create(context.Background(), m))
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.CreatedAt.IsZero())
	assert.NotNil(t, m.SideEffects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateValidation(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Error(t, store.Create(context.Background(), nil))
	assert.Error(t, store.Create(context.Background(), &Medication{Name: "Aspirin"}))
	assert.Error(t, store.Create(context.Background(), &Medication{UserID: "u1"}))
}

func TestStoreList(t *testing.T) {
	store, mock := newTestStore(t)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM medications").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "name", "dosage", "frequency", "start_date",
			"end_date", "instructions", "side_effects", "created_at",
		}).AddRow("m1", "u1", "Aspirin", "81mg", "daily", created, (*time.Time)(nil), "with food", []string{"nausea"}, created))

	meds, err := store.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, "Aspirin", meds[0].Name)
	assert.Equal(t, []string{"nausea"}, meds[0].SideEffects)
	assert.Nil(t, meds[0].EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListEmpty(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("FROM medications").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "name", "dosage", "frequency", "start_date",
			"end_date", "instructions", "side_effects", "created_at",
		}))

	meds, err := store.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, meds)
	assert.Empty(t, meds)
}

func TestStoreUpdateNotFound(t *testing.T) {
	store, mock := newTestStore(t)
	m := &Medication{ID: "missing", UserID: "u1", Name: "Aspirin"}

	mock.ExpectExec("UPDATE medications").
		WithArgs("missing", "u1", "Aspirin", "", "", m.StartDate, pgxmock.AnyArg(), "", []string{}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, store.Update(context.Background(), m), ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("DELETE FROM medications").
		WithArgs("m1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, store.Delete(context.Background(), "u1", "m1"))

	mock.ExpectExec("DELETE FROM medications").
		WithArgs("missing", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, store.Delete(context.Background(), "u1", "missing"), ErrNotFound)
}
