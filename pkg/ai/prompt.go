package ai

import (
	"strings"

	"github.com/noah-isme/gema-solver-api/pkg/normalize"
)

const (
	solveMaxTokens         = 1000
	evaluateMaxTokens      = 1000
	evaluatePlainMaxTokens = 500
)

func buildSolvePrompt(problem string) string {
	builder := strings.Builder{}
	builder.WriteString("You are a competitive programming expert. Solve the following problem.\n")
	builder.WriteString("Return ONLY the source code of the solution. Do not include explanations, ")
	builder.WriteString("comments about the approach, or markdown code fences.\n\n")
	builder.WriteString("# Problem\n")
	builder.WriteString(strings.TrimSpace(problem))
	return builder.String()
}

func buildEvaluatePrompt(problem, solution string) string {
	builder := strings.Builder{}
	builder.WriteString("You are a senior competitive programmer reviewing a peer's solution.\n\n")
	builder.WriteString("# Problem\n")
	builder.WriteString(strings.TrimSpace(problem))
	builder.WriteString("\n\n## Candidate Solution\n")
	builder.WriteString(normalize.StripFences(solution))
	builder.WriteString("\n\nRespond with a single JSON object and nothing else. It must contain exactly these fields:\n")
	builder.WriteString(`- "score": a string of the form "X/10"` + "\n")
	builder.WriteString(`- "critique": correctness and complexity problems you found` + "\n")
	builder.WriteString(`- "improvements": concrete suggestions to improve the solution` + "\n")
	builder.WriteString(`- "verdict": a one sentence overall verdict` + "\n")
	return builder.String()
}

func promptFor(req Request) string {
	if req.Task == TaskEvaluate {
		return buildEvaluatePrompt(req.Problem, req.Solution)
	}
	return buildSolvePrompt(req.Problem)
}

// maxTokensFor returns the output budget for a task. Evaluation without JSON mode
// gets a tighter budget so free-form commentary is cut short.
func maxTokensFor(task Task, caps Capabilities, jsonModeAvailable bool) int {
	if task != TaskEvaluate {
		return solveMaxTokens
	}
	if jsonModeAvailable && !caps.StructuredOutput {
		return evaluatePlainMaxTokens
	}
	return evaluateMaxTokens
}
