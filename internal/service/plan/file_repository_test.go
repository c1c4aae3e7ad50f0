package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kapu/workout-planner-go/internal/domain"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

func samplePlan(day string) domain.WorkoutResponse {
	return domain.WorkoutResponse{
		WorkoutDay: day,
		Exercises: []domain.Exercise{{
			Name:            "Squat",
			MusclesTargeted: []string{"Quadriceps", "Glutes"},
			Equipment:       []string{"None"},
			Description:     "Sit back and down.",
			Sets:            3,
			Reps:            "12",
			VideoURL:        "https://www.youtube.com/shorts/abc",
			ThumbnailURL:    "https://img.youtube.com/vi/abc/mqdefault.jpg",
		}},
	}
}

func TestFileRepositorySaveGetList(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir, nil)
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	older, err := repo.Save(context.Background(), samplePlan("Legs"))
	require.NoError(t, err)

	repo.now = func() time.Time { return base.Add(time.Hour) }
	newer, err := repo.Save(context.Background(), samplePlan("Push"))
	require.NoError(t, err)

	_, err = uuid.Parse(older.ID)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, older.ID+".json"))

	got, err := repo.Get(context.Background(), older.ID)
	require.NoError(t, err)
	require.Equal(t, older, got)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer.ID, list[0].ID)
	require.Equal(t, older.ID, list[1].ID)
}

func TestFileRepositoryRejectsInvalidPlan(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir(), nil)
	require.NoError(t, err)

	bad := samplePlan("Legs")
	bad.Exercises[0].Sets = 0
	_, err = repo.Save(context.Background(), bad)
	require.True(t, apperrors.IsValidation(err))
}

func TestFileRepositoryGetMissing(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), uuid.NewString())
	require.True(t, apperrors.IsNotFound(err))

	_, err = repo.Get(context.Background(), "../../etc/passwd")
	require.True(t, apperrors.IsNotFound(err))
}

func TestFileRepositoryValidatesOnLoad(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir, nil)
	require.NoError(t, err)

	id := uuid.NewString()
	content := `{"id":"` + id + `","plan":{"workoutDay":"x","exercises":[{"name":"","sets":1}]},"createdAt":"2026-01-01T00:00:00Z"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(content), 0o644))

	_, err = repo.Get(context.Background(), id)
	require.True(t, apperrors.IsValidation(err))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}
