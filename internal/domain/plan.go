package domain

import "time"

// SavedPlan is a generated plan persisted for later loading.
type SavedPlan struct {
	ID        string          `json:"id"`
	Plan      WorkoutResponse `json:"plan"`
	CreatedAt time.Time       `json:"createdAt"`
}
