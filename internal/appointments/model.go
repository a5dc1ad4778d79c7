package appointments

import "time"

// Appointment types.
const (
	TypeConsultation = "consultation"
	TypeCheckup      = "checkup"
	TypeFollowUp     = "follow-up"
	TypeEmergency    = "emergency"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Appointment is one scheduled visit with a provider.
type Appointment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	Doctor    string    `json:"doctor"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func validType(t string) bool {
	switch t {
	case TypeConsultation, TypeCheckup, TypeFollowUp, TypeEmergency:
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
