package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AnthropicConfig defines configuration options for the Anthropic provider.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Logger  zerolog.Logger
}

// AnthropicProvider implements Provider against the Anthropic messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewAnthropicProvider builds a provider using the supplied configuration.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// a failed call is final; the gateway never retries
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &AnthropicProvider{
		client: &client,
		tracer: otel.Tracer("github.com/noah-isme/gema-solver-api/pkg/ai/anthropic"),
		logger: cfg.Logger.With().Str("component", "anthropic_provider").Logger(),
	}, nil
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string {
	return ProviderAnthropic
}

// Generate sends the request to Anthropic and returns the first text block.
func (p *AnthropicProvider) Generate(parent context.Context, req Request) (string, error) {
	ctx, span := p.tracer.Start(parent, "anthropic.generate", trace.WithAttributes(
		attribute.String("model", req.Model),
		attribute.String("task", string(req.Task)),
	))
	defer span.End()

	start := time.Now()
	msg, err := p.client.Messages.New(ctx, buildAnthropicParams(req))
	observeCall(ProviderAnthropic, req, time.Since(start))
	if err != nil {
		callErr := &ProviderCallError{Provider: ProviderAnthropic, Model: req.Model, StatusCode: anthropicStatusCode(err), Err: err}
		recordFailure(span, ProviderAnthropic, req, callErr)
		return "", callErr
	}

	text, err := extractAnthropicText(req.Model, msg)
	if err != nil {
		recordFailure(span, ProviderAnthropic, req, err)
		return "", err
	}

	p.logger.Debug().
		Str("model", string(msg.Model)).
		Str("task", string(req.Task)).
		Int64("input_tokens", msg.Usage.InputTokens).
		Int64("output_tokens", msg.Usage.OutputTokens).
		Msg("anthropic message received")

	return text, nil
}

// buildAnthropicParams shapes a messages request. Anthropic has a single token
// limit parameter and no JSON mode, so only the temperature follows the capabilities.
func buildAnthropicParams(req Request) anthropic.MessageNewParams {
	caps := Classify(req.Model)

	return anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(maxTokensFor(req.Task, caps, false)),
		Temperature: anthropic.Float(caps.Temperature()),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(promptFor(req))),
		},
	}
}

func extractAnthropicText(model string, msg *anthropic.Message) (string, error) {
	if msg != nil {
		for _, block := range msg.Content {
			if block.Type == "text" && block.Text != "" {
				return block.Text, nil
			}
		}
	}
	return "", &ProviderResponseError{Provider: ProviderAnthropic, Model: model, Err: ErrNoTextContent}
}

func anthropicStatusCode(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
