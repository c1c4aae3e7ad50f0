package workout

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/domain"
	"github.com/kapu/workout-planner-go/internal/service/ai"
	"github.com/kapu/workout-planner-go/internal/service/video"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

type fakeCompleter struct {
	mu       sync.Mutex
	text     string
	err      error
	requests []ai.ChatRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.ChatRequest) (ai.ProviderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return ai.ProviderResult{}, f.err
	}
	return ai.ProviderResult{Text: f.text, Model: "test-model"}, nil
}

type fakeResolver struct {
	delays map[string]time.Duration
	panics map[string]bool

	mu    sync.Mutex
	names []string
}

func (f *fakeResolver) Resolve(ctx context.Context, name string) domain.VideoSearchResult {
	f.mu.Lock()
	f.names = append(f.names, name)
	f.mu.Unlock()

	if f.panics[name] {
		panic("resolver exploded for " + name)
	}
	if d := f.delays[name]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
		}
	}
	id := strings.ToLower(name) + "ID"
	return domain.VideoSearchResult{
		VideoID:      id,
		Title:        name,
		ThumbnailURL: "https://img.youtube.com/vi/" + id + "/mqdefault.jpg",
		ShortsURL:    "https://www.youtube.com/shorts/" + id,
		Source:       domain.VideoSourceScrapeProxy,
	}
}

func newTestGenerator(llm Completer, videos VideoResolver) *Generator {
	return NewGenerator(llm, videos, nil, Config{
		Model:       "mixtral-8x7b-32768",
		Temperature: 0.7,
		MaxTokens:   4000,
		Concurrency: 4,
	}, zap.NewNop())
}

func TestGenerateWorkoutsPreservesOrder(t *testing.T) {
	llm := &fakeCompleter{text: validPlanJSON}
	videos := &fakeResolver{delays: map[string]time.Duration{
		"Squat": 150 * time.Millisecond,
		"Lunge": 75 * time.Millisecond,
		"Plank": 0,
	}}

	plan, err := newTestGenerator(llm, videos).GenerateWorkouts(context.Background(), "legs and core", []string{"Chair"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Squat", "Lunge", "Plank"}, plan.ExerciseNames())

	for _, ex := range plan.Exercises {
		id := strings.ToLower(ex.Name) + "ID"
		require.Equal(t, "https://www.youtube.com/shorts/"+id, ex.VideoURL)
		require.Equal(t, "https://img.youtube.com/vi/"+id+"/mqdefault.jpg", ex.ThumbnailURL)
	}
	require.ElementsMatch(t, []string{"Squat", "Lunge", "Plank"}, videos.names)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	require.Equal(t, "mixtral-8x7b-32768", req.Model)
	require.InDelta(t, 0.7, req.Temperature, 1e-9)
	require.Equal(t, 4000, req.MaxTokens)
	require.Contains(t, req.System, `"workoutDay"`)
	require.Contains(t, req.User, "equipment items: Chair.")
	require.Contains(t, req.User, "Requirements: legs and core.")
}

func TestGenerateWorkoutsDefaultEquipment(t *testing.T) {
	llm := &fakeCompleter{text: validPlanJSON}
	_, err := newTestGenerator(llm, &fakeResolver{}).GenerateWorkouts(context.Background(), "anything", []string{" ", ""}, &domain.WorkoutOptions{Intensity: domain.IntensityHard})
	require.NoError(t, err)
	require.Contains(t, llm.requests[0].User, "equipment items: Chair, Yoga Mat.")
	require.Contains(t, llm.requests[0].User, "Intensity: hard.")
}

func TestGenerateWorkoutsRecoversResolverPanic(t *testing.T) {
	llm := &fakeCompleter{text: validPlanJSON}
	videos := &fakeResolver{panics: map[string]bool{"Lunge": true}}

	plan, err := newTestGenerator(llm, videos).GenerateWorkouts(context.Background(), "x", nil, nil)
	require.NoError(t, err)

	fallback := video.FallbackResult("Lunge")
	require.Equal(t, fallback.ShortsURL, plan.Exercises[1].VideoURL)
	require.Equal(t, fallback.ThumbnailURL, plan.Exercises[1].ThumbnailURL)
	require.Equal(t, "https://www.youtube.com/shorts/squatID", plan.Exercises[0].VideoURL)
}

func TestGenerateWorkoutsMalformedOutput(t *testing.T) {
	llm := &fakeCompleter{text: "I'd be happy to help! Here's a plan: squats, lunges."}
	videos := &fakeResolver{}

	plan, err := newTestGenerator(llm, videos).GenerateWorkouts(context.Background(), "x", nil, nil)
	require.Nil(t, plan)
	require.True(t, apperrors.IsValidation(err))
	require.Empty(t, videos.names)
}

func TestGenerateWorkoutsEmptyCompletion(t *testing.T) {
	llm := &fakeCompleter{text: ""}
	videos := &fakeResolver{}

	plan, err := newTestGenerator(llm, videos).GenerateWorkouts(context.Background(), "x", nil, nil)
	require.Nil(t, plan)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Equal(t, http.StatusBadGateway, valErr.StatusCode)
	require.Empty(t, valErr.Raw)
	require.Empty(t, videos.names)
}

func TestGenerateWorkoutsPropagatesModelErrors(t *testing.T) {
	cfgErr := apperrors.NewConfigurationError("LLM API key is not configured", "GROQ_API_KEY")
	_, err := newTestGenerator(&fakeCompleter{err: cfgErr}, &fakeResolver{}).GenerateWorkouts(context.Background(), "x", nil, nil)
	require.True(t, apperrors.IsConfiguration(err))

	upErr := apperrors.NewUpstreamError("model request failed", "OpenAI", http.StatusBadGateway, nil)
	_, err = newTestGenerator(&fakeCompleter{err: upErr}, &fakeResolver{}).GenerateWorkouts(context.Background(), "x", nil, nil)
	require.True(t, apperrors.IsUpstream(err))

	_, err = newTestGenerator(&fakeCompleter{err: errors.New("dial tcp: connection refused")}, &fakeResolver{}).GenerateWorkouts(context.Background(), "x", nil, nil)
	require.True(t, apperrors.IsUpstream(err))
}

func TestGenerateWorkoutsWithoutCredential(t *testing.T) {
	mm := ai.NewModelManager(nil, "GROQ_API_KEY", zap.NewNop())
	_, err := newTestGenerator(mm, &fakeResolver{}).GenerateWorkouts(context.Background(), "x", nil, nil)

	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "GROQ_API_KEY", cfgErr.Setting)
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	plan, err := ParseWorkout(validPlanJSON)
	require.NoError(t, err)

	enriched := newTestGenerator(&fakeCompleter{}, &fakeResolver{}).Enrich(context.Background(), plan)
	require.Empty(t, plan.Exercises[0].VideoURL)
	require.NotEmpty(t, enriched.Exercises[0].VideoURL)

	enriched.Exercises[0].MusclesTargeted[0] = "changed"
	require.Equal(t, "Quadriceps", plan.Exercises[0].MusclesTargeted[0])
}
