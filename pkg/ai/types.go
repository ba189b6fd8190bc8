package ai

import "context"

// Task identifies what the model is being asked to produce.
type Task string

const (
	// TaskSolve asks the model for a source-code solution.
	TaskSolve Task = "solve"
	// TaskEvaluate asks the model to review a candidate solution and reply with JSON.
	TaskEvaluate Task = "evaluate"
)

// Provider identifiers accepted by the gateway.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Request is the provider-neutral description of a single model call.
type Request struct {
	Model    string
	Task     Task
	Problem  string
	Solution string
}

// Provider describes an external model service capable of answering a Request.
type Provider interface {
	// Name returns the provider identifier, e.g. "openai".
	Name() string
	// Generate performs exactly one outbound call and returns the first text segment of the reply.
	Generate(ctx context.Context, req Request) (string, error)
}
