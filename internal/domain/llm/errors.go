package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRuntimeUnreachable marks connection failures, timeouts and 5xx replies.
	ErrRuntimeUnreachable = errors.New("model runtime unreachable")
	// ErrRuntimeFailure marks every other unsuccessful runtime interaction.
	ErrRuntimeFailure = errors.New("model runtime request failed")
	// ErrNoChoices is returned when a completion carries no choices at all.
	ErrNoChoices = errors.New("model runtime returned no choices")
)

// RuntimeError describes a failed call to the model runtime.
type RuntimeError struct {
	Provider   string
	StatusCode int
	Kind       error
	Err        error
}

func (e *RuntimeError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%s, status %d): %v", e.Kind, e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Provider, e.Err)
}

func (e *RuntimeError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewTransportError wraps a failure that happened before any HTTP status was received.
func NewTransportError(provider string, err error) *RuntimeError {
	return &RuntimeError{Provider: provider, Kind: ErrRuntimeUnreachable, Err: err}
}

// NewStatusError wraps a non-2xx reply. Server side errors count as unreachable.
func NewStatusError(provider string, status int, err error) *RuntimeError {
	kind := ErrRuntimeFailure
	if status >= http.StatusInternalServerError {
		kind = ErrRuntimeUnreachable
	}
	return &RuntimeError{Provider: provider, StatusCode: status, Kind: kind, Err: err}
}

// IsUnreachable reports whether err means the runtime could not serve the request.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrRuntimeUnreachable)
}
