package result

import (
	"errors"
	"fmt"

	"github.com/berrythewa/agenttext/internal/agenttext"
)

// Kind classifies a failure for reporting.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConnection
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConnection:
		return "connection"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Its message is what ends up in the
// envelope's error field.
type Error struct {
	Kind    Kind
	BaseURL string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConnection:
		return fmt.Sprintf("Connection error: %v. Make sure the API server is running on %s", e.Err, e.BaseURL)
	case KindAPI:
		return fmt.Sprintf("API error: %v", e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a KindValidation error for bad local input.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

// Classify maps err onto a Kind. baseURL is named in connection failures;
// when empty, the address recorded by the client is used.
func Classify(err error, baseURL string) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var connErr *agenttext.ConnectionError
	if errors.As(err, &connErr) {
		if baseURL == "" {
			baseURL = connErr.BaseURL
		}
		return &Error{Kind: KindConnection, BaseURL: baseURL, Err: err}
	}

	var apiErr *agenttext.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindAPI, BaseURL: baseURL, Err: err}
	}

	return &Error{Kind: KindUnknown, BaseURL: baseURL, Err: err}
}
