package domain

import (
	"fmt"
	"strings"
)

type Intensity string

const (
	IntensityEasy     Intensity = "easy"
	IntensityModerate Intensity = "moderate"
	IntensityHard     Intensity = "hard"
)

func (i Intensity) IsValid() bool {
	switch i {
	case IntensityEasy, IntensityModerate, IntensityHard:
		return true
	default:
		return false
	}
}

// AllowedDurations lists the session lengths offered to users, in minutes.
var AllowedDurations = []int{30, 60, 90, 120}

// DefaultEquipment is used when a request names no equipment.
var DefaultEquipment = []string{"Chair", "Yoga Mat"}

// WorkoutOptions refines the free-text prompt. Zero values are omitted from the prompt.
type WorkoutOptions struct {
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	Intensity       Intensity `json:"intensity,omitempty"`
	ExerciseGroups  []string  `json:"exerciseGroups,omitempty"`
}

func (o *WorkoutOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.DurationMinutes != 0 {
		allowed := false
		for _, d := range AllowedDurations {
			if d == o.DurationMinutes {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("durationMinutes must be one of %v", AllowedDurations)
		}
	}
	if o.Intensity != "" && !o.Intensity.IsValid() {
		return fmt.Errorf("intensity must be one of easy, moderate, hard")
	}
	return nil
}

// Describe renders the options as prompt requirements.
func (o *WorkoutOptions) Describe() string {
	if o == nil {
		return ""
	}

	parts := make([]string, 0, 3)
	if o.DurationMinutes > 0 {
		parts = append(parts, fmt.Sprintf("The session should last about %d minutes.", o.DurationMinutes))
	}
	if o.Intensity != "" {
		parts = append(parts, fmt.Sprintf("Intensity: %s.", o.Intensity))
	}

	groups := make([]string, 0, len(o.ExerciseGroups))
	for _, g := range o.ExerciseGroups {
		if trimmed := strings.TrimSpace(g); trimmed != "" {
			groups = append(groups, trimmed)
		}
	}
	if len(groups) > 0 {
		parts = append(parts, fmt.Sprintf("Focus on these exercise groups: %s.", strings.Join(groups, ", ")))
	}

	return strings.Join(parts, " ")
}
