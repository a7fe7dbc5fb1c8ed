package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// GenerationError is a failed model call, classified into a message that
// can be shown to the user. Status is the provider's HTTP status, 0 when
// the call never got an answer.
type GenerationError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// classifyStatus builds a GenerationError for a provider status code.
func classifyStatus(provider string, status int, err error) *GenerationError {
	var msg string
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		msg = provider + " API key is invalid or expired"
	case status == http.StatusTooManyRequests:
		msg = provider + " API rate limit exceeded. Please try again later."
	case status >= 500:
		msg = provider + " API is currently experiencing issues. Please try again later."
	default:
		msg = fmt.Sprintf("%s API error: %d", provider, status)
	}
	return &GenerationError{Provider: provider, Status: status, Message: msg, Err: err}
}

// classify wraps any completer failure as a GenerationError. Errors the
// completer already classified are returned as they are.
func classify(provider string, err error) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &GenerationError{Provider: provider, Message: provider + " request timed out. Please try again.", Err: err}
	case errors.Is(err, ErrMalformedCompletion):
		return &GenerationError{Provider: provider, Message: provider + " returned an unusable response", Err: err}
	default:
		return &GenerationError{Provider: provider, Message: fmt.Sprintf("%s connection error: %v", provider, err), Err: err}
	}
}
