package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/kapu/workout-planner-go/internal/domain"
)

var (
	schemaOnce    sync.Once
	compactSchema string
	schemaErr     error
)

// WorkoutSchema returns the plan JSON schema in compact form, as embedded in the system prompt.
func WorkoutSchema() (string, error) {
	schemaOnce.Do(func() {
		raw, err := templateFS.ReadFile("templates/workout_schema.json")
		if err != nil {
			schemaErr = fmt.Errorf("load workout schema: %w", err)
			return
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			schemaErr = fmt.Errorf("compact workout schema: %w", err)
			return
		}
		compactSchema = buf.String()
	})
	return compactSchema, schemaErr
}

// BuildWorkoutPrompts renders the system instruction (schema) and the user instruction
// (equipment, free-text requirements and optional workout options).
func (pb *PromptBuilder) BuildWorkoutPrompts(requirements string, equipment []string, opts *domain.WorkoutOptions) (WorkoutPrompts, error) {
	system, err := pb.Render(TemplateWorkoutSystem, nil)
	if err != nil {
		return WorkoutPrompts{}, err
	}

	user, err := pb.Render(TemplateWorkoutUser, WorkoutUserData{
		Equipment:    equipment,
		Requirements: strings.TrimSpace(requirements),
		Options:      opts.Describe(),
	})
	if err != nil {
		return WorkoutPrompts{}, err
	}

	return WorkoutPrompts{System: system, User: user}, nil
}
