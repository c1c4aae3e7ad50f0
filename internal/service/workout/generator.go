package workout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/domain"
	"github.com/kapu/workout-planner-go/internal/prompt"
	"github.com/kapu/workout-planner-go/internal/service/ai"
	"github.com/kapu/workout-planner-go/internal/service/video"
	"github.com/kapu/workout-planner-go/internal/util"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// Completer is the chat completion dependency; *ai.ModelManager satisfies it.
type Completer interface {
	Complete(ctx context.Context, req ai.ChatRequest) (ai.ProviderResult, error)
}

// VideoResolver must not fail; *video.Resolver satisfies it.
type VideoResolver interface {
	Resolve(ctx context.Context, exerciseName string) domain.VideoSearchResult
}

type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Concurrency int
	JSONMode    bool
	// Timeout bounds the model call only; video enrichment has its own per-tier limit.
	Timeout time.Duration
}

type Generator struct {
	llm     Completer
	videos  VideoResolver
	prompts *prompt.PromptBuilder
	cfg     Config
	logger  *zap.Logger
}

func NewGenerator(llm Completer, videos VideoResolver, prompts *prompt.PromptBuilder, cfg Config, logger *zap.Logger) *Generator {
	if prompts == nil {
		prompts = prompt.DefaultPromptBuilder()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = constants.VideoConfig.Concurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		llm:     llm,
		videos:  videos,
		prompts: prompts,
		cfg:     cfg,
		logger:  logger,
	}
}

// GenerateWorkouts asks the model for a plan, validates it and attaches a video to every exercise.
// An empty equipment list means domain.DefaultEquipment.
func (g *Generator) GenerateWorkouts(ctx context.Context, requirements string, equipment []string, opts *domain.WorkoutOptions) (*domain.WorkoutResponse, error) {
	equipment = normalizeEquipment(equipment)

	prompts, err := g.prompts.BuildWorkoutPrompts(requirements, equipment, opts)
	if err != nil {
		return nil, fmt.Errorf("build workout prompt: %w", err)
	}

	llmCtx := ctx
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		llmCtx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := g.llm.Complete(llmCtx, ai.ChatRequest{
		System:      prompts.System,
		User:        prompts.User,
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
		JSONMode:    g.cfg.JSONMode,
	})
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, err
		}
		return nil, apperrors.NewUpstreamError("model request failed", "llm", 0, err)
	}

	plan, err := ParseWorkout(result.Text)
	if err != nil {
		g.logger.Warn("Model returned an invalid plan",
			zap.String("model", result.Model),
			zap.String("response_preview", util.TruncateString(result.Text, 200)),
			zap.Error(err))
		return nil, err
	}

	g.logger.Info("Workout generated",
		zap.String("model", result.Model),
		zap.String("workout_day", plan.WorkoutDay),
		zap.Int("exercises", len(plan.Exercises)),
		zap.Duration("llm_duration", time.Since(start)))

	return g.Enrich(ctx, plan), nil
}

// Enrich resolves videos for all exercises concurrently and returns a new plan in the original order.
func (g *Generator) Enrich(ctx context.Context, plan *domain.WorkoutResponse) *domain.WorkoutResponse {
	results := make([]domain.VideoSearchResult, len(plan.Exercises))

	p := pool.New().WithMaxGoroutines(g.cfg.Concurrency)
	for i, ex := range plan.Exercises {
		p.Go(func() {
			results[i] = g.resolveSafely(ctx, ex.Name)
		})
	}
	p.Wait()

	enriched := &domain.WorkoutResponse{
		WorkoutDay: plan.WorkoutDay,
		Exercises:  make([]domain.Exercise, len(plan.Exercises)),
	}
	for i, ex := range plan.Exercises {
		enriched.Exercises[i] = ex.WithVideo(results[i])
	}
	return enriched
}

// resolveSafely turns a panic or an incomplete result into the search-results placeholder.
func (g *Generator) resolveSafely(ctx context.Context, name string) domain.VideoSearchResult {
	var result domain.VideoSearchResult
	if recovered := panics.Try(func() { result = g.videos.Resolve(ctx, name) }); recovered != nil {
		g.logger.Error("Video resolution panicked",
			zap.String("exercise", name),
			zap.String("panic", fmt.Sprint(recovered.Value)))
		return video.FallbackResult(name)
	}
	if !result.IsComplete() {
		return video.FallbackResult(name)
	}
	return result
}

func normalizeEquipment(equipment []string) []string {
	cleaned := make([]string, 0, len(equipment))
	for _, item := range equipment {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return append([]string(nil), domain.DefaultEquipment...)
	}
	return cleaned
}
