package payflow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorType classifies a failed API call.
type ErrorType string

const (
	// ErrorTypeAuth covers 401 and 403 responses. Never retried.
	ErrorTypeAuth ErrorType = "Auth"
	// ErrorTypeRateLimited covers 429 responses while retry budget remains.
	ErrorTypeRateLimited ErrorType = "RateLimited"
	// ErrorTypeTimeout means the per-attempt deadline fired before the call settled.
	ErrorTypeTimeout ErrorType = "Timeout"
	// ErrorTypeAPI covers every other non-2xx response, including a 429
	// whose retry budget is exhausted.
	ErrorTypeAPI ErrorType = "API"
	// ErrorTypeNetwork is a transport-level failure below the HTTP layer.
	ErrorTypeNetwork ErrorType = "Network"
)

// Error is the typed failure surfaced by the client. It carries enough
// structure (status code, message, best-effort decoded body) for callers to
// decide their own response; the client never swallows or downgrades one.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Body       any // decoded error body, nil when decoding failed
	Cause      error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("payflow: %s: %s", e.Type, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches on error type, so callers can compare against
// &Error{Type: ErrorTypeAuth} with errors.Is.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// errorMessage extracts a human-readable message from an upstream error
// body. Three shapes are recognized, first match wins:
//
//	{"error": "<string>"}
//	{"error": [{"message": ...}, ...]}
//	{"errors": [{"message": ...}, ...]}
//
// Anything else falls back to a generic message. The second return value is
// the decoded body, nil when the body was not valid JSON.
func errorMessage(status int, body []byte) (string, any) {
	fallback := fmt.Sprintf("Request failed with status %d", status)

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fallback, nil
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return fallback, decoded
	}

	if s, ok := obj["error"].(string); ok {
		return s, decoded
	}
	if list, ok := obj["error"].([]any); ok {
		return joinMessages(list), decoded
	}
	if list, ok := obj["errors"].([]any); ok {
		return joinMessages(list), decoded
	}
	return fallback, decoded
}

// joinMessages renders each element's "message" field (or the element
// itself when absent) joined with "; ".
func joinMessages(list []any) string {
	parts := make([]string, 0, len(list))
	for _, el := range list {
		if obj, ok := el.(map[string]any); ok {
			if msg, ok := obj["message"].(string); ok {
				parts = append(parts, msg)
				continue
			}
		}
		parts = append(parts, fmt.Sprintf("%v", el))
	}
	return strings.Join(parts, "; ")
}
