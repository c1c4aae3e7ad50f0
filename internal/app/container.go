package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/config"
	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/prompt"
	"github.com/kapu/workout-planner-go/internal/server"
	"github.com/kapu/workout-planner-go/internal/service/ai"
	"github.com/kapu/workout-planner-go/internal/service/cache"
	"github.com/kapu/workout-planner-go/internal/service/database"
	"github.com/kapu/workout-planner-go/internal/service/plan"
	"github.com/kapu/workout-planner-go/internal/service/scraper"
	"github.com/kapu/workout-planner-go/internal/service/video"
	"github.com/kapu/workout-planner-go/internal/service/workout"
)

// Container bundles assembled services for the HTTP server and the CLI tools.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Models    *ai.ModelManager
	Videos    *video.Resolver
	Scraper   *scraper.Service
	Generator *workout.Generator
	Plans     plan.Repository

	checks  map[string]server.HealthCheck
	closers []func() error
}

// Handler builds the HTTP API on top of the container's services.
func (c *Container) Handler(instr *server.Instrumentation) http.Handler {
	return server.New(server.Deps{
		Generator: c.Generator,
		Videos:    c.Videos,
		Scraper:   c.Scraper,
		Plans:     c.Plans,
		Instr:     instr,
		Logger:    c.Logger,
		Info: map[string]any{
			"llmProvider":   c.Models.ProviderName(),
			"llmConfigured": c.Models.Configured(),
			"videoTiers":    c.Videos.Sources(),
		},
		Checks: c.checks,
	})
}

// Close releases cache and database connections in reverse order of creation.
func (c *Container) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

// Build assembles all services. Missing LLM or YouTube credentials are not fatal:
// generation reports the missing key per request and video lookups start at the proxy.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	container := &Container{
		Config: cfg,
		Logger: logger,
		checks: make(map[string]server.HealthCheck),
	}
	defer func() {
		if err != nil {
			_ = container.Close()
		}
	}()

	// AI stack
	provider, setting, err := newChatProvider(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat provider: %w", err)
	}
	container.Models = ai.NewModelManager(provider, setting, logger)
	if !container.Models.Configured() {
		logger.Warn("LLM API key not set, workout generation will fail until it is configured",
			zap.String("setting", setting))
	}

	// Video chain
	videoCache, err := newVideoCache(cfg, logger, container)
	if err != nil {
		return nil, fmt.Errorf("failed to create video cache: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Video.TierTimeout}
	container.Videos, err = video.NewResolver(ctx, video.ResolverConfig{
		YouTubeAPIKey: cfg.YouTube.APIKey,
		ProxyBaseURL:  cfg.Video.ProxyBaseURL,
		TierTimeout:   cfg.Video.TierTimeout,
		HTTPClient:    httpClient,
	}, videoCache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create video resolver: %w", err)
	}

	container.Scraper = scraper.NewService(constants.YouTubeURLs.SearchResults,
		&http.Client{Timeout: scraperTimeout(cfg.Video.TierTimeout)}, logger)

	container.Generator = workout.NewGenerator(container.Models, container.Videos, prompt.DefaultPromptBuilder(), workout.Config{
		Model:       modelName(cfg),
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Concurrency: cfg.Video.Concurrency,
		JSONMode:    true,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	// Plan storage
	container.Plans, err = newPlanRepository(ctx, cfg, logger, container)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan repository: %w", err)
	}

	logger.Info("Services assembled",
		zap.String("llm_provider", container.Models.ProviderName()),
		zap.Bool("llm_configured", container.Models.Configured()),
		zap.Any("video_tiers", container.Videos.Sources()),
		zap.String("video_cache", cfg.Video.CacheBackend),
		zap.Bool("postgres", cfg.Postgres.Enabled()),
	)

	return container, nil
}

// newChatProvider returns a nil provider (not a typed nil) when the selected backend has no key.
func newChatProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ai.ChatProvider, string, error) {
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		gemini, err := ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model,
			cfg.LLM.Temperature, cfg.LLM.MaxTokens, logger)
		if err != nil {
			return nil, "", err
		}
		if gemini == nil {
			return nil, "GEMINI_API_KEY", nil
		}
		return gemini, "GEMINI_API_KEY", nil
	default:
		groq := ai.NewOpenAIProvider(ai.OpenAIProviderConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}, logger)
		if groq == nil {
			return nil, "GROQ_API_KEY", nil
		}
		return groq, "GROQ_API_KEY", nil
	}
}

// scraperTimeout caps the scrape at the proxy tier's timeout.
func scraperTimeout(tierTimeout time.Duration) time.Duration {
	if tierTimeout <= 0 {
		return constants.ScraperConfig.Timeout
	}
	return min(tierTimeout, constants.ScraperConfig.Timeout)
}

func modelName(cfg *config.Config) string {
	if cfg.LLM.Provider == config.ProviderGemini {
		return cfg.Gemini.Model
	}
	return cfg.LLM.Model
}

func newVideoCache(cfg *config.Config, logger *zap.Logger, c *Container) (video.VideoCache, error) {
	switch cfg.Video.CacheBackend {
	case config.CacheBackendRedis:
		redisCache, err := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Video.CacheTTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, redisCache.Close)
		c.checks["redis"] = redisCache.Ping
		return redisCache, nil
	case config.CacheBackendMemory:
		memory := cache.NewMemoryCache(cfg.Video.CacheSizeMB, cfg.Video.CacheTTL, logger)
		c.closers = append(c.closers, memory.Close)
		return memory, nil
	default:
		return nil, nil
	}
}

func newPlanRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger, c *Container) (plan.Repository, error) {
	if !cfg.Postgres.Enabled() {
		return plan.NewFileRepository(cfg.Storage.PlanDir, logger)
	}

	postgres, err := database.NewPostgresService(ctx, database.PostgresConfig{
		Host:         cfg.Postgres.Host,
		Port:         cfg.Postgres.Port,
		User:         cfg.Postgres.User,
		Password:     cfg.Postgres.Password,
		Database:     cfg.Postgres.Database,
		MaxOpenConns: cfg.Postgres.MaxConns,
	}, logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, postgres.Close)
	c.checks["postgres"] = postgres.Ping

	return plan.NewPostgresRepository(ctx, postgres, logger)
}
