package consoleapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRequestBody is returned before any network call when a body cannot be encoded.
	ErrInvalidRequestBody = errors.New("Invalid request body format.") //nolint:revive,staticcheck // user-facing text

	// ErrInvalidJSON is returned when a successful response does not parse.
	ErrInvalidJSON = errors.New("Invalid JSON response from server.") //nolint:revive,staticcheck // user-facing text
)

// APIError is returned for every non-2xx response.
type APIError struct {
	Status     int
	StatusText string
	Message    string
	// Details is the parsed response body, or nil when it was not JSON.
	Details any
}

func (e *APIError) Error() string { return e.Message }

// HTTPStatus exposes the response status for error classification.
func (e *APIError) HTTPStatus() int { return e.Status }

// newAPIError builds the error for resp with its already-read body.
// The message prefers the body's "error", then "message", then a generic line.
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
	}

	var details any
	if len(body) > 0 && json.Unmarshal(body, &details) == nil {
		apiErr.Details = details
	}
	if obj, ok := apiErr.Details.(map[string]any); ok {
		apiErr.Message = firstNonEmpty(messageValue(obj["error"]), messageValue(obj["message"]))
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("API Request Failed: %d %s", apiErr.Status, apiErr.StatusText)
	}
	return apiErr
}

// statusText prefers the reason phrase the server sent.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text, ok := strings.CutPrefix(resp.Status, code+" "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func messageValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
	case float64:
		if val == 0 {
			return ""
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// StatusCode returns the API status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }
