// Package normalize turns free-text model output into the gateway's fixed response shapes.
package normalize

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyResponse indicates the provider replied with no text at all.
	ErrEmptyResponse = errors.New("empty provider response")
	// ErrMalformedResponse indicates the reply could not be parsed into an evaluation.
	ErrMalformedResponse = errors.New("malformed provider response")
)

var (
	openingFence     = regexp.MustCompile("(?i)^```[a-z0-9_+#.-]*[ \t]*(?:\r?\n|$)")
	bareOpeningFence = regexp.MustCompile("^```")
	closingFence     = regexp.MustCompile("\r?\n?[ \t]*```[ \t]*$")

	// inlineTaggedFence matches "```python def f(): pass```" style single-line fences.
	// Only multi-letter language names are recognised so code such as "```x = 1```" survives.
	inlineTaggedFence = regexp.MustCompile("(?i)^```(?:python3?|py|golang|go|javascript|js|typescript|ts|java|kotlin|kt|swift|cpp|c\\+\\+|csharp|cs|rust|rs|ruby|rb|php|scala|sql|bash|sh|json)[ \t]+")
)

// StripFences removes one layer of leading and trailing markdown code fences, language
// tagged or bare, and trims surrounding whitespace.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if loc := openingFence.FindStringIndex(trimmed); loc != nil {
		trimmed = trimmed[loc[1]:]
	} else if loc := inlineTaggedFence.FindStringIndex(trimmed); loc != nil && !strings.Contains(trimmed, "\n") {
		trimmed = trimmed[loc[1]:]
	} else {
		trimmed = bareOpeningFence.ReplaceAllString(trimmed, "")
	}
	trimmed = closingFence.ReplaceAllString(trimmed, "")
	return strings.TrimSpace(trimmed)
}

// Solution cleans a generated solution. It strips fences until none remain, so
// applying it to its own output is a no-op.
func Solution(raw string) string {
	current := strings.TrimSpace(raw)
	for {
		next := StripFences(current)
		if next == current {
			return current
		}
		current = next
	}
}

// ExtractJSONObject returns the substring between the first '{' and the last '}'.
// Commentary around the object is discarded; the substring itself is not validated.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
