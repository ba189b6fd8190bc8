package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OpenAIConfig defines configuration options for the OpenAI provider.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Logger  zerolog.Logger
}

// OpenAIProvider implements Provider against the OpenAI chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIProvider builds a provider using the supplied configuration.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		tracer: otel.Tracer("github.com/noah-isme/gema-solver-api/pkg/ai/openai"),
		logger: cfg.Logger.With().Str("component", "openai_provider").Logger(),
	}, nil
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Generate sends the request to OpenAI and returns the first choice's text.
func (p *OpenAIProvider) Generate(parent context.Context, req Request) (string, error) {
	ctx, span := p.tracer.Start(parent, "openai.generate", trace.WithAttributes(
		attribute.String("model", req.Model),
		attribute.String("task", string(req.Task)),
	))
	defer span.End()

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, buildOpenAIRequest(req))
	observeCall(ProviderOpenAI, req, time.Since(start))
	if err != nil {
		callErr := &ProviderCallError{Provider: ProviderOpenAI, Model: req.Model, StatusCode: openAIStatusCode(err), Err: err}
		recordFailure(span, ProviderOpenAI, req, callErr)
		return "", callErr
	}

	text, err := extractOpenAIText(req.Model, resp)
	if err != nil {
		recordFailure(span, ProviderOpenAI, req, err)
		return "", err
	}

	p.logger.Debug().
		Str("model", resp.Model).
		Str("task", string(req.Task)).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("openai completion received")

	return text, nil
}

// buildOpenAIRequest shapes a chat completion request from the model's capabilities.
func buildOpenAIRequest(req Request) openai.ChatCompletionRequest {
	caps := Classify(req.Model)
	maxTokens := maxTokensFor(req.Task, caps, true)

	request := openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: float32(caps.Temperature()),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: promptFor(req),
			},
		},
	}

	if caps.TokenLimit == TokenLimitMaxCompletionTokens {
		request.MaxCompletionTokens = maxTokens
	} else {
		request.MaxTokens = maxTokens
	}

	if req.Task == TaskEvaluate && caps.StructuredOutput {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	return request
}

func extractOpenAIText(model string, resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", &ProviderResponseError{Provider: ProviderOpenAI, Model: model, Err: fmt.Errorf("no choices returned: %w", ErrNoTextContent)}
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &ProviderResponseError{Provider: ProviderOpenAI, Model: model, Err: ErrNoTextContent}
	}

	return content, nil
}

func openAIStatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
