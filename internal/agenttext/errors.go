package agenttext

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ConnectionError reports that the server could not be reached at all:
// refused connections, DNS failures, timeouts, truncated replies.
type ConnectionError struct {
	BaseURL string
	Err     error
}

func (e *ConnectionError) Error() string {
	return e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// APIError reports a reply outside the 2xx range.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

func newAPIError(req *http.Request, status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    errorMessage(status, body),
		Method:     req.Method,
		Path:       req.URL.Path,
	}
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		var s string
		if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}
