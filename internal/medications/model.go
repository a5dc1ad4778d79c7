package medications

import "time"

// Medication is one entry in a user's medication list.
type Medication struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage"`
	Frequency    string     `json:"frequency"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	SideEffects  []string   `json:"side_effects"`
	CreatedAt    time.Time  `json:"created_at"`
}
