package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// GeminiProvider generates with the Gemini API in JSON response mode.
type GeminiProvider struct {
	client       *genai.Client
	defaultModel string
	temperature  float64
	maxTokens    int
	logger       *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, defaultModel string, temperature float64, maxTokens int, logger *zap.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:       client,
		defaultModel: defaultModel,
		temperature:  temperature,
		maxTokens:    maxTokens,
		logger:       logger,
	}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) Generate(ctx context.Context, req ChatRequest) (ProviderResult, error) {
	if g == nil || g.client == nil {
		return ProviderResult{}, fmt.Errorf("gemini client not initialized")
	}

	modelName := req.Model
	if modelName == "" {
		modelName = g.defaultModel
	}
	temperature := float32(g.temperature)
	if req.Temperature != 0 {
		temperature = float32(req.Temperature)
	}
	maxTokens := int32(g.maxTokens)
	if req.MaxTokens != 0 {
		maxTokens = int32(req.MaxTokens)
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}
	if req.JSONMode {
		genConfig.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	g.logger.Debug("Generating with Gemini",
		zap.String("model", modelName),
		zap.Bool("json_mode", req.JSONMode),
	)

	resp, err := g.client.Models.GenerateContent(ctx, modelName, []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: req.User}},
		},
	}, genConfig)
	if err != nil {
		g.logger.Error("Gemini generation failed", zap.Error(err))
		return ProviderResult{}, upstreamFromGemini(err)
	}

	text := extractTextFromGeminiResponse(resp)
	if text == "" {
		g.logger.Warn("Gemini response has no text", zap.String("model", modelName))
	}

	g.logger.Debug("Gemini response received", zap.Int("length", len(text)))
	return ProviderResult{Text: text, Model: modelName}, nil
}

func upstreamFromGemini(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.NewUpstreamError(
			fmt.Sprintf("model request failed with status %d", apiErr.Code),
			"Gemini", apiErr.Code, err,
		)
	}
	return apperrors.NewUpstreamError("model request failed", "Gemini", 0, err)
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}
