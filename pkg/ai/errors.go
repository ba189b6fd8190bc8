package ai

import (
	"errors"
	"fmt"
)

// ErrNoTextContent is wrapped by ProviderResponseError when a reply carries no text.
var ErrNoTextContent = errors.New("no text content in provider response")

// ProviderCallError reports a failure while invoking a provider: network, auth, rate limit or timeout.
type ProviderCallError struct {
	Provider   string
	Model      string
	StatusCode int
	Err        error
}

func (e *ProviderCallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s call failed (model %s, status %d): %v", e.Provider, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s call failed (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderCallError) Unwrap() error { return e.Err }

// ProviderResponseError reports a reply that arrived but had no usable text.
type ProviderResponseError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderResponseError) Error() string {
	return fmt.Sprintf("%s returned an unusable response (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderResponseError) Unwrap() error { return e.Err }

// IsProviderError reports whether err originated from a provider call or its response.
func IsProviderError(err error) bool {
	var callErr *ProviderCallError
	var respErr *ProviderResponseError
	return errors.As(err, &callErr) || errors.As(err, &respErr)
}
