package workout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kapu/workout-planner-go/internal/domain"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// CleanJSON strips markdown fences and keeps the outermost object.
func CleanJSON(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return strings.TrimSpace(cleaned)
}

// ParseWorkout decodes model output into a plan. Exercises are checked in order, fields in the order
// name, musclesTargeted, equipment, description, sets, reps; the first violation rejects the whole plan.
func ParseWorkout(raw string) (*domain.WorkoutResponse, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &doc); err != nil {
		return nil, apperrors.NewParseError(raw, err)
	}

	plan := &domain.WorkoutResponse{}
	if day, ok := doc["workoutDay"]; ok {
		if v, err := decodeLoose(day); err == nil {
			if s, ok := v.(string); ok {
				plan.WorkoutDay = strings.TrimSpace(s)
			}
		}
	}

	var items []json.RawMessage
	rawExercises, ok := doc[domain.FieldExercises]
	if !ok || json.Unmarshal(rawExercises, &items) != nil || items == nil {
		return nil, modelOutputError(apperrors.NewValidationError("exercises must be an array", domain.FieldExercises, apperrors.NoIndex), raw)
	}
	if len(items) == 0 {
		return nil, modelOutputError(apperrors.NewValidationError("exercises must not be empty", domain.FieldExercises, apperrors.NoIndex), raw)
	}

	plan.Exercises = make([]domain.Exercise, 0, len(items))
	for i, item := range items {
		ex, err := parseExercise(i, item)
		if err != nil {
			return nil, modelOutputError(err, raw)
		}
		plan.Exercises = append(plan.Exercises, ex)
	}

	if err := domain.ValidateWorkout(plan); err != nil {
		var valErr *apperrors.ValidationError
		if errors.As(err, &valErr) {
			return nil, modelOutputError(valErr, raw)
		}
		return nil, err
	}
	return plan, nil
}

func parseExercise(index int, item json.RawMessage) (domain.Exercise, *apperrors.ValidationError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return domain.Exercise{}, apperrors.NewValidationError(
			fmt.Sprintf("exercise %d must be an object", index), domain.FieldExercises, index)
	}

	var (
		ex  domain.Exercise
		err *apperrors.ValidationError
	)
	if ex.Name, err = requireString(fields, domain.FieldName, index); err != nil {
		return domain.Exercise{}, err
	}
	if ex.MusclesTargeted, err = requireStrings(fields, domain.FieldMusclesTargeted, index); err != nil {
		return domain.Exercise{}, err
	}
	if ex.Equipment, err = requireStrings(fields, domain.FieldEquipment, index); err != nil {
		return domain.Exercise{}, err
	}
	if ex.Description, err = requireString(fields, domain.FieldDescription, index); err != nil {
		return domain.Exercise{}, err
	}
	if ex.Sets, err = requireSets(fields, index); err != nil {
		return domain.Exercise{}, err
	}
	if ex.Reps, err = requireReps(fields, index); err != nil {
		return domain.Exercise{}, err
	}
	return ex, nil
}

func requireString(fields map[string]json.RawMessage, field string, index int) (string, *apperrors.ValidationError) {
	v, err := decodeLoose(fields[field])
	s, ok := v.(string)
	if err != nil || !ok || strings.TrimSpace(s) == "" {
		return "", domain.MissingFieldError(field, index)
	}
	return strings.TrimSpace(s), nil
}

func requireStrings(fields map[string]json.RawMessage, field string, index int) ([]string, *apperrors.ValidationError) {
	v, err := decodeLoose(fields[field])
	list, ok := v.([]any)
	if err != nil || !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("exercise %d: %s must be an array of strings", index, field), field, index)
	}

	values := make([]string, 0, len(list))
	for _, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("exercise %d: %s must be an array of strings", index, field), field, index)
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return nil, domain.MissingFieldError(field, index)
	}
	return values, nil
}

func requireSets(fields map[string]json.RawMessage, index int) (int, *apperrors.ValidationError) {
	invalid := apperrors.NewValidationError(
		fmt.Sprintf("exercise %d: sets must be a positive integer", index), domain.FieldSets, index)

	v, err := decodeLoose(fields[domain.FieldSets])
	n, ok := v.(json.Number)
	if err != nil || !ok {
		return 0, invalid
	}
	f, err := n.Float64()
	if err != nil || f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, invalid
	}
	return int(f), nil
}

// requireReps accepts text such as "30 seconds" or a bare number.
func requireReps(fields map[string]json.RawMessage, index int) (string, *apperrors.ValidationError) {
	v, err := decodeLoose(fields[domain.FieldReps])
	if err != nil {
		return "", domain.MissingFieldError(domain.FieldReps, index)
	}
	switch reps := v.(type) {
	case string:
		if trimmed := strings.TrimSpace(reps); trimmed != "" {
			return trimmed, nil
		}
	case json.Number:
		return reps.String(), nil
	}
	return "", domain.MissingFieldError(domain.FieldReps, index)
}

// decodeLoose decodes raw keeping numbers as json.Number. A missing field decodes to nil.
func decodeLoose(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// modelOutputError marks a validation failure as caused by the model (502) and attaches the raw text.
func modelOutputError(err *apperrors.ValidationError, raw string) *apperrors.ValidationError {
	err.StatusCode = 502
	err.Raw = raw
	return err
}
