package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// Exercise field names in validation order.
const (
	FieldName            = "name"
	FieldMusclesTargeted = "musclesTargeted"
	FieldEquipment       = "equipment"
	FieldDescription     = "description"
	FieldSets            = "sets"
	FieldReps            = "reps"
	FieldExercises       = "exercises"
)

// ValidateWorkout checks every exercise in order and reports the first violation.
func ValidateWorkout(w *WorkoutResponse) error {
	if w == nil || len(w.Exercises) == 0 {
		return apperrors.NewValidationError("exercises must be a non-empty array", FieldExercises, apperrors.NoIndex)
	}
	for i := range w.Exercises {
		if err := ValidateExercise(i, w.Exercises[i]); err != nil {
			return err
		}
	}
	return nil
}

func ValidateExercise(index int, ex Exercise) error {
	switch {
	case strings.TrimSpace(ex.Name) == "":
		return MissingFieldError(FieldName, index)
	case !hasNonEmpty(ex.MusclesTargeted):
		return MissingFieldError(FieldMusclesTargeted, index)
	case !hasNonEmpty(ex.Equipment):
		return MissingFieldError(FieldEquipment, index)
	case strings.TrimSpace(ex.Description) == "":
		return MissingFieldError(FieldDescription, index)
	case ex.Sets <= 0:
		return apperrors.NewValidationError(fmt.Sprintf("exercise %d: sets must be a positive integer", index), FieldSets, index)
	case strings.TrimSpace(ex.Reps) == "":
		return MissingFieldError(FieldReps, index)
	}
	return nil
}

func MissingFieldError(field string, index int) *apperrors.ValidationError {
	return apperrors.NewValidationError(fmt.Sprintf("exercise %d: %s is required", index, field), field, index)
}

func hasNonEmpty(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
