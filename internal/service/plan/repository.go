package plan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kapu/workout-planner-go/internal/domain"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// Repository persists generated plans. Save validates the plan first; Get validates on load.
type Repository interface {
	Save(ctx context.Context, plan domain.WorkoutResponse) (domain.SavedPlan, error)
	Get(ctx context.Context, id string) (domain.SavedPlan, error)
	List(ctx context.Context) ([]domain.SavedPlan, error)
}

const listLimit = 100

func newSavedPlan(plan domain.WorkoutResponse, now time.Time) (domain.SavedPlan, error) {
	if err := domain.ValidateWorkout(&plan); err != nil {
		return domain.SavedPlan{}, err
	}
	return domain.SavedPlan{
		ID:        uuid.NewString(),
		Plan:      plan,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
	}, nil
}

// parseID rejects anything that is not a UUID, so ids can be used as file names.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", apperrors.NewNotFoundError("plan", id)
	}
	return parsed.String(), nil
}
