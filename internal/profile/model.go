package profile

import "time"

// HealthProfile is the per-user health context consumed by the assistant and
// the reminder service. All fields are optional; a zero profile is valid.
type HealthProfile struct {
	UserID     string    `json:"user_id"`
	Age        int       `json:"age,omitempty"`
	Gender     string    `json:"gender,omitempty"`
	HeightCM   float64   `json:"height_cm,omitempty"`
	WeightKG   float64   `json:"weight_kg,omitempty"`
	BloodType  string    `json:"blood_type,omitempty"`
	Allergies  []string  `json:"allergies"`
	Conditions []string  `json:"conditions"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasCondition reports whether the profile lists the named condition.
func (p *HealthProfile) HasCondition(name string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.Conditions {
		if c == name {
			return true
		}
	}
	return false
}
