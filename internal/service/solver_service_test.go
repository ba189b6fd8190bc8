package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-solver-api/internal/dto"
	"github.com/noah-isme/gema-solver-api/internal/observability"
	"github.com/noah-isme/gema-solver-api/pkg/ai"
	"github.com/noah-isme/gema-solver-api/pkg/normalize"
)

type stubProvider struct {
	name     string
	response string
	err      error
	block    bool
	calls    int
	last     ai.Request
	deadline time.Time
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(ctx context.Context, req ai.Request) (string, error) {
	s.calls++
	s.last = req
	s.deadline, _ = ctx.Deadline()
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestSolverService(timeout time.Duration, providers ...ai.Provider) SolverService {
	return NewSolverService(providers, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop(), SolverConfig{ProviderTimeout: timeout})
}

func TestSolverServiceSolveCleansFences(t *testing.T) {
	provider := &stubProvider{name: ai.ProviderOpenAI, response: "```python\ndef solve(a,b): return a+b\n```"}
	svc := newTestSolverService(time.Second, provider)

	resp, err := svc.Solve(context.Background(), dto.SolveRequest{Provider: "OpenAI ", Model: " gpt-4 ", Problem: "Add two integers."})
	require.NoError(t, err)
	require.Equal(t, "def solve(a,b): return a+b", resp.Solution)

	require.Equal(t, 1, provider.calls)
	require.Equal(t, ai.TaskSolve, provider.last.Task)
	require.Equal(t, "gpt-4", provider.last.Model)
	require.False(t, provider.deadline.IsZero())
}

func TestSolverServiceValidationMakesNoCall(t *testing.T) {
	provider := &stubProvider{name: ai.ProviderOpenAI, response: "x"}
	svc := newTestSolverService(time.Second, provider)

	cases := map[string]dto.SolveRequest{
		"missing provider": {Model: "gpt-4", Problem: "p"},
		"unknown provider": {Provider: "gemini", Model: "gpt-4", Problem: "p"},
		"missing model":    {Provider: "openai", Problem: "p"},
		"blank problem":    {Provider: "openai", Model: "gpt-4", Problem: "   "},
		"long problem":     {Provider: "openai", Model: "gpt-4", Problem: strings.Repeat("a", 5001)},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Solve(context.Background(), payload)
			require.Error(t, err)
			var validationErrors validator.ValidationErrors
			require.True(t, errors.As(err, &validationErrors))
		})
	}

	require.Zero(t, provider.calls)
}

func TestSolverServiceProblemLengthCountsCharacters(t *testing.T) {
	provider := &stubProvider{name: ai.ProviderAnthropic, response: "ok"}
	svc := newTestSolverService(time.Second, provider)

	// 5000 multi-byte characters is well over 5000 bytes but still valid.
	_, err := svc.Solve(context.Background(), dto.SolveRequest{Provider: "anthropic", Model: "claude-3-haiku", Problem: strings.Repeat("é", 5000)})
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)
}

func TestSolverServiceUnconfiguredProvider(t *testing.T) {
	svc := newTestSolverService(time.Second, &stubProvider{name: ai.ProviderOpenAI})

	_, err := svc.Solve(context.Background(), dto.SolveRequest{Provider: "anthropic", Model: "claude-3-haiku", Problem: "p"})
	require.True(t, errors.Is(err, ErrUnknownProvider))

	_, err = svc.Evaluate(context.Background(), dto.EvaluateRequest{Provider: "anthropic", Model: "claude-3-haiku", Problem: "p", Solution: "s"})
	require.True(t, errors.Is(err, ErrUnknownProvider))
}

func TestSolverServiceSolveWrapsProviderFailure(t *testing.T) {
	cause := &ai.ProviderCallError{Provider: ai.ProviderAnthropic, Model: "claude-3-haiku", StatusCode: 429, Err: errors.New("rate limited")}
	svc := newTestSolverService(time.Second, &stubProvider{name: ai.ProviderAnthropic, err: cause})

	_, err := svc.Solve(context.Background(), dto.SolveRequest{Provider: "anthropic", Model: "claude-3-haiku", Problem: "p"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSolveFailed))

	var callErr *ai.ProviderCallError
	require.True(t, errors.As(err, &callErr))
	require.Equal(t, 429, callErr.StatusCode)
}

func TestSolverServiceEvaluateParsesProviderJSON(t *testing.T) {
	provider := &stubProvider{
		name:     ai.ProviderOpenAI,
		response: `Here: {"score":"8/10","critique":"ok","improvements":"none","verdict":"good"}`,
	}
	svc := newTestSolverService(time.Second, provider)

	resp, err := svc.Evaluate(context.Background(), dto.EvaluateRequest{Provider: "openai", Model: "gpt-4o", Problem: "p", Solution: "s"})
	require.NoError(t, err)
	require.Equal(t, dto.EvaluationResponse{Score: "8/10", Critique: "ok", Improvements: "none", Verdict: "good"}, resp)
	require.Equal(t, ai.TaskEvaluate, provider.last.Task)
	require.Equal(t, "s", provider.last.Solution)
}

func TestSolverServiceEvaluateNeverFailsOnProvider(t *testing.T) {
	cases := map[string]struct {
		provider *stubProvider
		expected normalize.Evaluation
	}{
		"network error": {
			provider: &stubProvider{name: ai.ProviderOpenAI, err: errors.New("connection refused")},
			expected: normalize.Unavailable(),
		},
		"timeout": {
			provider: &stubProvider{name: ai.ProviderOpenAI, block: true},
			expected: normalize.Unavailable(),
		},
		"empty response": {
			provider: &stubProvider{name: ai.ProviderOpenAI, response: "  "},
			expected: normalize.Fallback(normalize.ErrEmptyResponse),
		},
		"no text content": {
			provider: &stubProvider{name: ai.ProviderOpenAI, err: &ai.ProviderResponseError{Provider: ai.ProviderOpenAI, Model: "gpt-4", Err: ai.ErrNoTextContent}},
			expected: normalize.Unavailable(),
		},
		"prose response": {
			provider: &stubProvider{name: ai.ProviderOpenAI, response: "Looks fine to me."},
			expected: normalize.Fallback(normalize.ErrMalformedResponse),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestSolverService(20*time.Millisecond, tc.provider)

			resp, err := svc.Evaluate(context.Background(), dto.EvaluateRequest{Provider: "openai", Model: "gpt-4", Problem: "p", Solution: "s"})
			require.NoError(t, err)
			require.Equal(t, dto.NewEvaluationResponse(tc.expected), resp)
			require.Equal(t, 1, tc.provider.calls)
		})
	}
}

func TestSolverServiceEvaluateValidation(t *testing.T) {
	provider := &stubProvider{name: ai.ProviderOpenAI}
	svc := newTestSolverService(time.Second, provider)

	_, err := svc.Evaluate(context.Background(), dto.EvaluateRequest{Provider: "openai", Model: "gpt-4", Problem: "p"})
	require.Error(t, err)
	require.Zero(t, provider.calls)
}

func TestSolverServiceLogsCorrelationID(t *testing.T) {
	var logs bytes.Buffer
	svc := NewSolverService(
		[]ai.Provider{&stubProvider{name: ai.ProviderOpenAI, err: errors.New("connection reset")}},
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.New(&logs),
		SolverConfig{ProviderTimeout: time.Second},
	)

	ctx := observability.ContextWithCorrelationID(context.Background(), "req-42")
	_, err := svc.Solve(ctx, dto.SolveRequest{Provider: "openai", Model: "gpt-4", Problem: "p"})
	require.Error(t, err)
	require.Contains(t, logs.String(), `"correlation_id":"req-42"`)
}
