package profile

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsNilWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id, age").
		WithArgs("user-1").
		WillReturnError(sql.ErrNoRows)

	repo := NewRepository(db)
	p, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScansArrays(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"user_id", "age", "gender", "height_cm", "weight_kg", "blood_type",
		"allergies", "conditions", "updated_at",
	}).AddRow("user-1", 62, "female", 165.0, 70.0, "O+",
		pq.Array([]string{"Penicillin"}), pq.Array([]string{"Hypertension", "Diabetes"}), time.Now())

	mock.ExpectQuery("SELECT user_id, age").
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewRepository(db)
	p, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 62, p.Age)
	assert.Equal(t, []string{"Penicillin"}, p.Allergies)
	assert.True(t, p.HasCondition("Diabetes"))
	assert.False(t, p.HasCondition("Asthma"))
}

func TestUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO health_profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRepository(db)
	err = repo.Upsert(context.Background(), &HealthProfile{
		UserID:     "user-1",
		Age:        40,
		Allergies:  []string{},
		Conditions: []string{"Asthma"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
