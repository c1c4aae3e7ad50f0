package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/workout-planner-go/internal/constants"
)

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Gemini   GeminiConfig
	YouTube  YouTubeConfig
	Video    VideoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Storage  StorageConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port int
}

type LLMConfig struct {
	Provider    string // "groq" (OpenAI-compatible) or "gemini"
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type YouTubeConfig struct {
	APIKey string
}

type VideoConfig struct {
	ProxyBaseURL string
	TierTimeout  time.Duration
	Concurrency  int
	CacheBackend string // "memory", "redis" or "none"
	CacheTTL     time.Duration
	CacheSizeMB  int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	MaxConns int
}

// Enabled reports whether plans should be stored in PostgreSQL instead of files.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

type StorageConfig struct {
	PlanDir string
}

type LoggingConfig struct {
	Level string
	File  string
}

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := getEnvInt("PORT", 3001)

	cfg := &Config{
		Server: ServerConfig{
			Port: port,
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(getEnv("LLM_PROVIDER", ProviderGroq)),
			APIKey:      firstEnv("GROQ_API_KEY", "REACT_APP_GROQ_API_KEY"),
			BaseURL:     getEnv("LLM_BASE_URL", constants.LLMConfig.GroqBaseURL),
			Model:       getEnv("LLM_MODEL", constants.LLMConfig.DefaultModel),
			Temperature: getEnvFloat("LLM_TEMPERATURE", constants.LLMConfig.Temperature),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", constants.LLMConfig.MaxTokens),
			Timeout:     getEnvDuration("LLM_TIMEOUT", constants.LLMConfig.Timeout),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", constants.LLMConfig.GeminiModel),
		},
		YouTube: YouTubeConfig{
			APIKey: firstEnv("YOUTUBE_API_KEY", "REACT_APP_YOUTUBE_API_KEY"),
		},
		Video: VideoConfig{
			ProxyBaseURL: getEnv("PROXY_BASE_URL", fmt.Sprintf("http://localhost:%d", port)),
			TierTimeout:  getEnvDuration("VIDEO_TIER_TIMEOUT", constants.VideoConfig.TierTimeout),
			Concurrency:  getEnvInt("VIDEO_CONCURRENCY", constants.VideoConfig.Concurrency),
			CacheBackend: strings.ToLower(getEnv("VIDEO_CACHE_BACKEND", CacheBackendMemory)),
			CacheTTL:     getEnvDuration("VIDEO_CACHE_TTL", constants.VideoConfig.CacheTTL),
			CacheSizeMB:  getEnvInt("VIDEO_CACHE_SIZE_MB", constants.VideoConfig.CacheSizeMB),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "workout"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "workout"),
			MaxConns: getEnvInt("POSTGRES_MAX_CONNS", 10),
		},
		Storage: StorageConfig{
			PlanDir: getEnv("PLAN_DIR", "data/plans"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks structural settings only. Missing API credentials are not fatal here:
// generation reports them per request and video lookups degrade without them.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	switch c.LLM.Provider {
	case ProviderGroq, ProviderGemini:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q", ProviderGroq, ProviderGemini)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}
	if c.Video.ProxyBaseURL == "" {
		return fmt.Errorf("PROXY_BASE_URL is required")
	}
	if c.Video.Concurrency <= 0 {
		return fmt.Errorf("VIDEO_CONCURRENCY must be positive")
	}
	switch c.Video.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("VIDEO_CACHE_BACKEND must be memory, redis or none")
	}
	if !c.Postgres.Enabled() && c.Storage.PlanDir == "" {
		return fmt.Errorf("PLAN_DIR is required when POSTGRES_HOST is not set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ParseEquipment splits a comma separated equipment list, used by the CLI tools.
func ParseEquipment(value string) []string {
	return parseCommaSeparated(value)
}
