package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/domain"
	"github.com/kapu/workout-planner-go/internal/service/database"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

const (
	createPlansTable = `
	CREATE TABLE IF NOT EXISTS workout_plans (
		id          UUID PRIMARY KEY,
		workout_day TEXT NOT NULL,
		plan        JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`
	createPlansCreatedIndex = `
	CREATE INDEX IF NOT EXISTS workout_plans_created_at_idx ON workout_plans (created_at DESC)
`
)

// PostgresRepository stores plans as JSONB rows.
type PostgresRepository struct {
	db     *sql.DB
	now    func() time.Time
	logger *zap.Logger
}

func NewPostgresRepository(ctx context.Context, postgres *database.PostgresService, logger *zap.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := postgres.Migrate(ctx, createPlansTable, createPlansCreatedIndex); err != nil {
		return nil, apperrors.NewStorageError("failed to create workout_plans table", "init", "workout_plans", err)
	}
	return &PostgresRepository{
		db:     postgres.GetDB(),
		now:    time.Now,
		logger: logger,
	}, nil
}

func (r *PostgresRepository) Save(ctx context.Context, plan domain.WorkoutResponse) (domain.SavedPlan, error) {
	saved, err := newSavedPlan(plan, r.now())
	if err != nil {
		return domain.SavedPlan{}, err
	}

	planJSON, err := json.Marshal(saved.Plan)
	if err != nil {
		return domain.SavedPlan{}, apperrors.NewStorageError("failed to encode plan", "save", saved.ID, err)
	}

	query := `
		INSERT INTO workout_plans (id, workout_day, plan, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, saved.ID, saved.Plan.WorkoutDay, planJSON, saved.CreatedAt); err != nil {
		return domain.SavedPlan{}, apperrors.NewStorageError("failed to insert plan", "save", saved.ID, err)
	}

	r.logger.Info("Plan saved",
		zap.String("id", saved.ID),
		zap.Int("exercises", len(saved.Plan.Exercises)))

	return saved, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (domain.SavedPlan, error) {
	normalized, err := parseID(id)
	if err != nil {
		return domain.SavedPlan{}, err
	}

	query := `
		SELECT id, plan, created_at
		FROM workout_plans
		WHERE id = $1
	`

	saved, err := scanPlan(r.db.QueryRowContext(ctx, query, normalized))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SavedPlan{}, apperrors.NewNotFoundError("plan", id)
	}
	if err != nil {
		return domain.SavedPlan{}, apperrors.NewStorageError("failed to query plan", "get", id, err)
	}
	if err := domain.ValidateWorkout(&saved.Plan); err != nil {
		return domain.SavedPlan{}, err
	}
	return saved, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.SavedPlan, error) {
	query := `
		SELECT id, plan, created_at
		FROM workout_plans
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, listLimit)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list plans", "list", "", err)
	}
	defer rows.Close()

	plans := make([]domain.SavedPlan, 0)
	for rows.Next() {
		saved, err := scanPlan(rows)
		if err == nil {
			err = domain.ValidateWorkout(&saved.Plan)
		}
		if err != nil {
			r.logger.Warn("Skipping unreadable plan row", zap.String("id", saved.ID), zap.Error(err))
			continue
		}
		plans = append(plans, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate plans", "list", "", err)
	}
	return plans, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (domain.SavedPlan, error) {
	var (
		saved    domain.SavedPlan
		planJSON []byte
	)
	if err := row.Scan(&saved.ID, &planJSON, &saved.CreatedAt); err != nil {
		return domain.SavedPlan{}, err
	}
	if err := json.Unmarshal(planJSON, &saved.Plan); err != nil {
		return domain.SavedPlan{}, err
	}
	return saved, nil
}
