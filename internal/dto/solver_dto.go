package dto

import (
	"strings"

	"github.com/noah-isme/gema-solver-api/pkg/normalize"
)

// SolveRequest represents the payload for requesting a generated solution.
type SolveRequest struct {
	Provider string `json:"provider" validate:"required,oneof=openai anthropic"`
	Model    string `json:"model" validate:"required"`
	Problem  string `json:"problem" validate:"required,max=5000"`
}

// Sanitize trims the request fields and lowercases the provider.
func (r *SolveRequest) Sanitize() {
	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
	r.Model = strings.TrimSpace(r.Model)
	r.Problem = strings.TrimSpace(r.Problem)
}

// SolveResponse carries the cleaned solution source.
type SolveResponse struct {
	Solution string `json:"solution"`
}

// EvaluateRequest represents the payload for reviewing a candidate solution.
type EvaluateRequest struct {
	Provider string `json:"provider" validate:"required,oneof=openai anthropic"`
	Model    string `json:"model" validate:"required"`
	Problem  string `json:"problem" validate:"required"`
	Solution string `json:"solution" validate:"required"`
}

// Sanitize trims the request fields and lowercases the provider.
func (r *EvaluateRequest) Sanitize() {
	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
	r.Model = strings.TrimSpace(r.Model)
	r.Problem = strings.TrimSpace(r.Problem)
	r.Solution = strings.TrimSpace(r.Solution)
}

// EvaluationResponse is the four-field review returned to the browser.
type EvaluationResponse struct {
	Score        string `json:"score"`
	Critique     string `json:"critique"`
	Improvements string `json:"improvements"`
	Verdict      string `json:"verdict"`
}

// NewEvaluationResponse converts a normalized evaluation into a DTO.
func NewEvaluationResponse(evaluation normalize.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		Score:        evaluation.Score,
		Critique:     evaluation.Critique,
		Improvements: evaluation.Improvements,
		Verdict:      evaluation.Verdict,
	}
}
