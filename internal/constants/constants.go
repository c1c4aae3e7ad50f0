package constants

import "time"

var LLMConfig = struct {
	GroqBaseURL  string
	DefaultModel string
	GeminiModel  string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}{
	GroqBaseURL:  "https://api.groq.com/openai/v1/",
	DefaultModel: "mixtral-8x7b-32768",
	GeminiModel:  "gemini-2.5-flash",
	Temperature:  0.7,
	MaxTokens:    4000,
	Timeout:      60 * time.Second,
}

var YouTubeURLs = struct {
	ShortsBase    string
	SearchResults string
	ThumbnailFmt  string
	Placeholder   string
}{
	ShortsBase:    "https://www.youtube.com/shorts/",
	SearchResults: "https://www.youtube.com/results?search_query=",
	ThumbnailFmt:  "https://img.youtube.com/vi/%s/mqdefault.jpg",
	Placeholder:   "https://placehold.co/200x120",
}

var VideoConfig = struct {
	TierTimeout  time.Duration
	Concurrency  int
	CacheTTL     time.Duration
	CacheSizeMB  int
	ProxyBaseURL string
}{
	TierTimeout:  10 * time.Second,
	Concurrency:  8,
	CacheTTL:     24 * time.Hour,
	CacheSizeMB:  16,
	ProxyBaseURL: "http://localhost:3001",
}

// YouTube Data API quota, reset daily at midnight Pacific time.
var QuotaConfig = struct {
	DailyLimit   int
	SearchCost   int
	SafetyMargin int
}{
	DailyLimit:   10000,
	SearchCost:   100,
	SafetyMargin: 500,
}

var ScraperConfig = struct {
	Timeout   time.Duration
	UserAgent string
	MaxBody   int64
}{
	Timeout:   15 * time.Second,
	UserAgent: "Mozilla/5.0 (compatible; WorkoutPlanner/1.0)",
	MaxBody:   8 << 20,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
	RateLimitTimeout time.Duration
}{
	FailureThreshold: 3,                // consecutive upstream failures before OPEN
	ResetTimeout:     30 * time.Second,
	RateLimitTimeout: 5 * time.Minute, // 429 from the LLM provider
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}{
	ReadTimeout:     15 * time.Second,
	WriteTimeout:    2 * time.Minute, // generation plus video lookups
	ShutdownTimeout: 10 * time.Second,
	MaxBodyBytes:    1 << 20,
}
