package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Repository reads and writes health profiles.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the profile for userID, or nil when none has been saved yet.
func (r *Repository) Get(ctx context.Context, userID string) (*HealthProfile, error) {
	var p HealthProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, age, gender, height_cm, weight_kg, blood_type, allergies, conditions, updated_at
		FROM health_profiles WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.Age, &p.Gender, &p.HeightCM, &p.WeightKG, &p.BloodType,
		pq.Array(&p.Allergies), pq.Array(&p.Conditions), &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile: get %s: %w", userID, err)
	}
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if p.Conditions == nil {
		p.Conditions = []string{}
	}
	return &p, nil
}

// Upsert stores the profile, replacing any existing row for the user.
func (r *Repository) Upsert(ctx context.Context, p *HealthProfile) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_profiles (user_id, age, gender, height_cm, weight_kg, blood_type, allergies, conditions, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			blood_type = EXCLUDED.blood_type,
			allergies = EXCLUDED.allergies,
			conditions = EXCLUDED.conditions,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.Age, p.Gender, p.HeightCM, p.WeightKG, p.BloodType,
		pq.Array(p.Allergies), pq.Array(p.Conditions), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("profile: upsert %s: %w", p.UserID, err)
	}
	return nil
}
