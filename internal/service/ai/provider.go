package ai

import "context"

// ChatRequest is one system/user exchange. Zero Temperature and MaxTokens fall back to provider defaults.
type ChatRequest struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

type ProviderResult struct {
	Text  string
	Model string
}

// ChatProvider is a single LLM backend. Implementations never retry.
type ChatProvider interface {
	Name() string
	Generate(ctx context.Context, req ChatRequest) (ProviderResult, error)
}
