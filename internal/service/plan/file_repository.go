package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/domain"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// FileRepository stores each plan as pretty-printed JSON named <id>.json.
type FileRepository struct {
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

func NewFileRepository(dir string, logger *zap.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewStorageError("failed to create plan directory", "init", dir, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileRepository{dir: dir, now: time.Now, logger: logger}, nil
}

func (r *FileRepository) Save(_ context.Context, plan domain.WorkoutResponse) (domain.SavedPlan, error) {
	saved, err := newSavedPlan(plan, r.now())
	if err != nil {
		return domain.SavedPlan{}, err
	}

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return domain.SavedPlan{}, apperrors.NewStorageError("failed to encode plan", "save", saved.ID, err)
	}

	path := r.path(saved.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return domain.SavedPlan{}, apperrors.NewStorageError("failed to write plan", "save", saved.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return domain.SavedPlan{}, apperrors.NewStorageError("failed to write plan", "save", saved.ID, err)
	}

	r.logger.Info("Plan saved",
		zap.String("id", saved.ID),
		zap.Int("exercises", len(saved.Plan.Exercises)))

	return saved, nil
}

func (r *FileRepository) Get(_ context.Context, id string) (domain.SavedPlan, error) {
	normalized, err := parseID(id)
	if err != nil {
		return domain.SavedPlan{}, err
	}
	return r.load(r.path(normalized), normalized)
}

func (r *FileRepository) List(_ context.Context) ([]domain.SavedPlan, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list plans", "list", r.dir, err)
	}

	plans := make([]domain.SavedPlan, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		saved, err := r.load(filepath.Join(r.dir, entry.Name()), id)
		if err != nil {
			r.logger.Warn("Skipping unreadable plan", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		plans = append(plans, saved)
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	if len(plans) > listLimit {
		plans = plans[:listLimit]
	}
	return plans, nil
}

func (r *FileRepository) load(path, id string) (domain.SavedPlan, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.SavedPlan{}, apperrors.NewNotFoundError("plan", id)
	}
	if err != nil {
		return domain.SavedPlan{}, apperrors.NewStorageError("failed to read plan", "get", id, err)
	}

	var saved domain.SavedPlan
	if err := json.Unmarshal(data, &saved); err != nil {
		return domain.SavedPlan{}, apperrors.NewStorageError(fmt.Sprintf("plan %s is corrupt", id), "get", id, err)
	}
	if err := domain.ValidateWorkout(&saved.Plan); err != nil {
		return domain.SavedPlan{}, err
	}
	return saved, nil
}

func (r *FileRepository) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}
