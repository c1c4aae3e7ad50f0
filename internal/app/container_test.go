package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/config"
	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/domain"
	"github.com/kapu/workout-planner-go/internal/server"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: 3001},
		LLM: config.LLMConfig{
			Provider:    config.ProviderGroq,
			Model:       "mixtral-8x7b-32768",
			Temperature: 0.7,
			MaxTokens:   4000,
			Timeout:     time.Second,
		},
		Video: config.VideoConfig{
			ProxyBaseURL: "http://127.0.0.1:1",
			TierTimeout:  time.Second,
			Concurrency:  4,
			CacheBackend: config.CacheBackendMemory,
			CacheTTL:     time.Minute,
			CacheSizeMB:  1,
		},
		Storage: config.StorageConfig{PlanDir: t.TempDir()},
	}
}

func TestBuildWithoutCredentials(t *testing.T) {
	c, err := Build(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })

	require.False(t, c.Models.Configured())
	require.Equal(t, []domain.VideoSource{domain.VideoSourceScrapeProxy, domain.VideoSourceFallback}, c.Videos.Sources())

	h := c.Handler(server.NewTestInstrumentation())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, false, health["llmConfigured"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/workouts", strings.NewReader(`{"prompt":"legs"}`)))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "GROQ_API_KEY", body["setting"])
}

func TestBuildVideoFallbackWhenTiersUnreachable(t *testing.T) {
	c, err := Build(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	result := c.Videos.Resolve(context.Background(), "Push-up")
	require.Equal(t, domain.VideoSourceFallback, result.Source)
	require.True(t, result.IsComplete())
}

func TestBuildRejectsNilConfig(t *testing.T) {
	_, err := Build(context.Background(), nil, zap.NewNop())
	require.Error(t, err)
}

func TestScraperTimeoutStaysWithinTierBudget(t *testing.T) {
	require.Equal(t, 10*time.Second, scraperTimeout(10*time.Second))
	require.Equal(t, time.Second, scraperTimeout(time.Second))
	require.Equal(t, constants.ScraperConfig.Timeout, scraperTimeout(time.Minute))
	require.Equal(t, constants.ScraperConfig.Timeout, scraperTimeout(0))
}
