package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint (Groq by default).
type OpenAIProvider struct {
	client       *openai.Client
	defaultModel string
	temperature  float64
	maxTokens    int
	logger       *zap.Logger
}

type OpenAIProviderConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewOpenAIProvider returns nil when no API key is configured.
func NewOpenAIProvider(cfg OpenAIProviderConfig, logger *zap.Logger, opts ...option.RequestOption) *OpenAIProvider {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	client := openai.NewClient(clientOpts...)
	return &OpenAIProvider{
		client:       &client,
		defaultModel: cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		logger:       logger,
	}
}

func (o *OpenAIProvider) Name() string {
	return "OpenAI"
}

func (o *OpenAIProvider) Generate(ctx context.Context, req ChatRequest) (ProviderResult, error) {
	if o == nil || o.client == nil {
		return ProviderResult{}, fmt.Errorf("OpenAI client not initialized")
	}

	modelName := req.Model
	if modelName == "" {
		modelName = o.defaultModel
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = o.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = o.maxTokens
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(modelName),
		Messages:    messages,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	o.logger.Debug("Generating with OpenAI-compatible endpoint",
		zap.String("model", modelName),
		zap.Float64("temperature", temperature),
		zap.Int("max_tokens", maxTokens),
		zap.Bool("json_mode", req.JSONMode),
	)

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		o.logger.Error("OpenAI generation failed", zap.Error(err))
		return ProviderResult{}, upstreamFromOpenAI(err)
	}

	// An empty completion is handed to the parser, which reports it as invalid output.
	var text string
	if len(resp.Choices) == 0 {
		o.logger.Warn("OpenAI response has no choices", zap.String("model", modelName))
	} else {
		text = resp.Choices[0].Message.Content
	}

	o.logger.Info("OpenAI response received",
		zap.String("model", modelName),
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	return ProviderResult{Text: text, Model: modelName}, nil
}

func upstreamFromOpenAI(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apperrors.NewUpstreamError(
			fmt.Sprintf("model request failed with status %d", apiErr.StatusCode),
			"OpenAI", apiErr.StatusCode, err,
		)
	}
	return apperrors.NewUpstreamError("model request failed", "OpenAI", 0, err)
}
