package ai

import "strings"

// TokenLimitParam names the request field a model accepts for its output budget.
type TokenLimitParam string

const (
	// TokenLimitMaxTokens is the classic "max_tokens" parameter.
	TokenLimitMaxTokens TokenLimitParam = "max_tokens"
	// TokenLimitMaxCompletionTokens is required by reasoning and next-generation models.
	TokenLimitMaxCompletionTokens TokenLimitParam = "max_completion_tokens"
)

const (
	// DefaultTemperature is used for models that accept a custom sampling temperature.
	DefaultTemperature = 0.7
	// FixedTemperature is the only value constrained models accept.
	FixedTemperature = 1.0
)

// Capabilities describes how a model must be called.
type Capabilities struct {
	CustomTemperature bool
	TokenLimit        TokenLimitParam
	StructuredOutput  bool
}

// Constrained reports whether the model rejects custom sampling settings.
func (c Capabilities) Constrained() bool {
	return !c.CustomTemperature
}

// Temperature returns the sampling temperature to send for this model.
func (c Capabilities) Temperature() float64 {
	if c.CustomTemperature {
		return DefaultTemperature
	}
	return FixedTemperature
}

type modelFamily struct {
	Marker string
	// Segment requires the marker to start an identifier segment.
	Segment bool
	Caps    Capabilities
}

// modelFamilies is checked in order; the first marker found in the model id wins.
var modelFamilies = []modelFamily{
	// OpenAI reasoning models
	{Marker: "o1", Segment: true, Caps: Capabilities{TokenLimit: TokenLimitMaxCompletionTokens}},
	{Marker: "o3", Segment: true, Caps: Capabilities{TokenLimit: TokenLimitMaxCompletionTokens}},
	{Marker: "o4", Segment: true, Caps: Capabilities{TokenLimit: TokenLimitMaxCompletionTokens}},
	// Next-generation GPT models
	{Marker: "gpt-5", Caps: Capabilities{TokenLimit: TokenLimitMaxCompletionTokens}},
	// General-purpose chat models with JSON mode
	{Marker: "gpt-4o", Caps: Capabilities{CustomTemperature: true, TokenLimit: TokenLimitMaxTokens, StructuredOutput: true}},
	{Marker: "gpt-4.1", Caps: Capabilities{CustomTemperature: true, TokenLimit: TokenLimitMaxTokens, StructuredOutput: true}},
	{Marker: "gpt-4-turbo", Caps: Capabilities{CustomTemperature: true, TokenLimit: TokenLimitMaxTokens, StructuredOutput: true}},
	{Marker: "gpt-3.5-turbo", Caps: Capabilities{CustomTemperature: true, TokenLimit: TokenLimitMaxTokens, StructuredOutput: true}},
}

var defaultCapabilities = Capabilities{CustomTemperature: true, TokenLimit: TokenLimitMaxTokens}

// Classify resolves the call capabilities of a model from its identifier.
// Unknown models get a custom temperature, max_tokens and no structured output hint.
func Classify(model string) Capabilities {
	modelLower := strings.ToLower(strings.TrimSpace(model))
	for _, family := range modelFamilies {
		if family.Segment && containsSegment(modelLower, family.Marker) {
			return family.Caps
		}
		if !family.Segment && strings.Contains(modelLower, family.Marker) {
			return family.Caps
		}
	}
	return defaultCapabilities
}

// containsSegment matches marker only at the start of an identifier segment,
// so "o1" matches "o1-mini" and "openai/o1" but not "gpt-4o1x".
func containsSegment(model, marker string) bool {
	offset := 0
	for {
		idx := strings.Index(model[offset:], marker)
		if idx < 0 {
			return false
		}
		pos := offset + idx
		if pos == 0 || !isAlphaNum(model[pos-1]) {
			return true
		}
		offset = pos + 1
	}
}

func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
