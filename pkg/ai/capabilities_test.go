package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyModelFamilies(t *testing.T) {
	cases := []struct {
		model       string
		constrained bool
		tokenLimit  TokenLimitParam
		structured  bool
	}{
		{model: "o1", constrained: true, tokenLimit: TokenLimitMaxCompletionTokens},
		{model: "o1-mini", constrained: true, tokenLimit: TokenLimitMaxCompletionTokens},
		{model: "O3-mini", constrained: true, tokenLimit: TokenLimitMaxCompletionTokens},
		{model: "o4-mini-2025-04-16", constrained: true, tokenLimit: TokenLimitMaxCompletionTokens},
		{model: "openai/o3", constrained: true, tokenLimit: TokenLimitMaxCompletionTokens},
		{model: "gpt-5", constrained: true, tokenLimit: TokenLimitMaxCompletionTokens},
		{model: "GPT-5-mini", constrained: true, tokenLimit: TokenLimitMaxCompletionTokens},
		{model: "gpt-4o", tokenLimit: TokenLimitMaxTokens, structured: true},
		{model: "gpt-4o-mini", tokenLimit: TokenLimitMaxTokens, structured: true},
		{model: "chatgpt-4o-latest", tokenLimit: TokenLimitMaxTokens, structured: true},
		{model: "gpt-4.1-nano", tokenLimit: TokenLimitMaxTokens, structured: true},
		{model: "gpt-3.5-turbo", tokenLimit: TokenLimitMaxTokens, structured: true},
		{model: "gpt-4", tokenLimit: TokenLimitMaxTokens},
		{model: "claude-3-5-sonnet-20241022", tokenLimit: TokenLimitMaxTokens},
		{model: "claude-opus-4-1", tokenLimit: TokenLimitMaxTokens},
		{model: "some-unknown-model", tokenLimit: TokenLimitMaxTokens},
	}

	for _, tc := range cases {
		t.Run(tc.model, func(t *testing.T) {
			caps := Classify(tc.model)
			require.Equal(t, tc.constrained, caps.Constrained())
			require.Equal(t, tc.tokenLimit, caps.TokenLimit)
			require.Equal(t, tc.structured, caps.StructuredOutput)
		})
	}
}

func TestConstrainedModelsUseFixedSettingsOnBothTasks(t *testing.T) {
	for _, model := range []string{"o1-preview", "o3-mini", "o4-mini", "gpt-5", "gpt-5-nano"} {
		for _, task := range []Task{TaskSolve, TaskEvaluate} {
			req := Request{Model: model, Task: task, Problem: "Sum two numbers.", Solution: "print(1)"}

			openAIReq := buildOpenAIRequest(req)
			require.Equal(t, float32(FixedTemperature), openAIReq.Temperature, "%s/%s", model, task)
			require.Zero(t, openAIReq.MaxTokens, "%s/%s", model, task)
			require.Positive(t, openAIReq.MaxCompletionTokens, "%s/%s", model, task)

			anthropicReq := buildAnthropicParams(req)
			require.True(t, anthropicReq.Temperature.Valid())
			require.Equal(t, FixedTemperature, anthropicReq.Temperature.Value, "%s/%s", model, task)
		}
	}
}

func TestStandardModelsUseConfigurableTemperature(t *testing.T) {
	for _, task := range []Task{TaskSolve, TaskEvaluate} {
		req := Request{Model: "gpt-4", Task: task, Problem: "p", Solution: "s"}

		openAIReq := buildOpenAIRequest(req)
		require.Equal(t, float32(DefaultTemperature), openAIReq.Temperature)
		require.Positive(t, openAIReq.MaxTokens)
		require.Zero(t, openAIReq.MaxCompletionTokens)
	}
}

func TestStructuredOutputHintOnlyForKnownChatModelsOnEvaluate(t *testing.T) {
	evalReq := buildOpenAIRequest(Request{Model: "gpt-4o-mini", Task: TaskEvaluate, Problem: "p", Solution: "s"})
	require.NotNil(t, evalReq.ResponseFormat)
	require.Equal(t, evaluateMaxTokens, evalReq.MaxTokens)

	solveReq := buildOpenAIRequest(Request{Model: "gpt-4o-mini", Task: TaskSolve, Problem: "p"})
	require.Nil(t, solveReq.ResponseFormat)
	require.Equal(t, solveMaxTokens, solveReq.MaxTokens)

	plainReq := buildOpenAIRequest(Request{Model: "gpt-4", Task: TaskEvaluate, Problem: "p", Solution: "s"})
	require.Nil(t, plainReq.ResponseFormat)
	require.Equal(t, evaluatePlainMaxTokens, plainReq.MaxTokens)

	reasoningReq := buildOpenAIRequest(Request{Model: "o3-mini", Task: TaskEvaluate, Problem: "p", Solution: "s"})
	require.Nil(t, reasoningReq.ResponseFormat)
}

func TestEvaluatePromptEmbedsFenceFreeSolution(t *testing.T) {
	prompt := buildEvaluatePrompt("Add two numbers.", "```python\nprint(1 + 2)\n```")

	require.Contains(t, prompt, "Add two numbers.")
	require.Contains(t, prompt, "print(1 + 2)")
	require.NotContains(t, prompt, "```")
	require.Contains(t, prompt, `"improvements"`)
}
