package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransport wraps failures that happened before a response arrived.
	ErrTransport = errors.New("transport error")
	// ErrUnsupported is returned for operations the kind has no route for.
	ErrUnsupported = errors.New("operation not supported")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	// Message is the server's own explanation, taken from the body's
	// "message" or "error" field. It may be empty.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d (%s)", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Message)
}

func newStatusError(code int, body []byte) *StatusError {
	se := &StatusError{Code: code}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return se
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			se.Message = strings.TrimSpace(s)
			break
		}
	}
	return se
}

// Message returns the user-facing text for err: the server's message when
// it sent one, fallback otherwise.
func Message(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
