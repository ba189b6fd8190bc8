package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Evaluation is the fixed four-field review returned to the browser.
type Evaluation struct {
	Score        string `json:"score"`
	Critique     string `json:"critique"`
	Improvements string `json:"improvements"`
	Verdict      string `json:"verdict"`
}

const evaluationSchemaText = `{
	"type": "object",
	"required": ["score", "critique", "improvements", "verdict"],
	"properties": {
		"score": {"type": ["string", "number"]},
		"critique": {"type": ["string", "number", "boolean"]},
		"improvements": {"type": ["string", "number", "boolean"]},
		"verdict": {"type": ["string", "number", "boolean"]}
	}
}`

var evaluationSchema = jsonschema.MustCompileString("schema://evaluation.json", evaluationSchemaText)

// Unavailable is returned when the provider could not be reached or failed.
func Unavailable() Evaluation {
	return Evaluation{
		Score:        "5/10",
		Critique:     "The automated reviewer is temporarily unavailable, so a detailed critique could not be produced.",
		Improvements: "Double-check edge cases, input bounds and time complexity against the problem constraints.",
		Verdict:      "Evaluation unavailable; please try again later.",
	}
}

func emptyFallback() Evaluation {
	return Evaluation{
		Score:        "N/A",
		Critique:     "The reviewer returned an empty response.",
		Improvements: "No suggestions were produced for this solution.",
		Verdict:      "Unable to evaluate; the model did not answer.",
	}
}

func malformedFallback() Evaluation {
	return Evaluation{
		Score:        "N/A",
		Critique:     "The reviewer's response could not be interpreted.",
		Improvements: "No structured suggestions could be extracted from the response.",
		Verdict:      "Unable to evaluate; the model answered in an unexpected format.",
	}
}

// ParseEvaluation turns raw model text into an Evaluation. It fails with
// ErrEmptyResponse or ErrMalformedResponse.
func ParseEvaluation(raw string) (Evaluation, error) {
	if strings.TrimSpace(raw) == "" {
		return Evaluation{}, ErrEmptyResponse
	}

	candidate := StripFences(raw)
	if object, ok := ExtractJSONObject(candidate); ok {
		candidate = object
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(candidate)))
	decoder.UseNumber()
	var document interface{}
	if err := decoder.Decode(&document); err != nil {
		return Evaluation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return Evaluation{}, fmt.Errorf("%w: trailing data after the evaluation object", ErrMalformedResponse)
	}

	if err := evaluationSchema.Validate(document); err != nil {
		return Evaluation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	fields := document.(map[string]interface{})
	score, ok := canonicalScore(scalarString(fields["score"]))
	if !ok {
		return Evaluation{}, fmt.Errorf("%w: score %q is outside 0-10", ErrMalformedResponse, scalarString(fields["score"]))
	}

	evaluation := Evaluation{
		Score:        score,
		Critique:     scalarString(fields["critique"]),
		Improvements: scalarString(fields["improvements"]),
		Verdict:      scalarString(fields["verdict"]),
	}

	for name, value := range map[string]string{
		"score":        evaluation.Score,
		"critique":     evaluation.Critique,
		"improvements": evaluation.Improvements,
		"verdict":      evaluation.Verdict,
	} {
		if value == "" {
			return Evaluation{}, fmt.Errorf("%w: field %q is empty", ErrMalformedResponse, name)
		}
	}

	return evaluation, nil
}

// Evaluate always yields a fully populated Evaluation. When parsing fails
// the matching fallback is returned together with the parse error, for logging.
func Evaluate(raw string) (Evaluation, error) {
	evaluation, err := ParseEvaluation(raw)
	if err == nil {
		return evaluation, nil
	}
	return Fallback(err), err
}

// Fallback maps a parse error to its canned Evaluation.
func Fallback(err error) Evaluation {
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return emptyFallback()
	case errors.Is(err, ErrMalformedResponse):
		return malformedFallback()
	default:
		return Unavailable()
	}
}

func scalarString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// canonicalScore rewrites a bare number such as "8" or "7.5" as "8/10" or "7.5/10".
// Numbers that are not finite or fall outside 0-10 are rejected; other text is kept.
func canonicalScore(score string) (string, bool) {
	value, err := strconv.ParseFloat(score, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return score, true
	}
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 || value > 10 {
		return "", false
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + "/10", true
}
