package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches a 401 response: the session expired or was never
	// opened, and the user has to log in again.
	ErrUnauthorized = errors.New("unauthorized: run `adoperator login`")

	// ErrNotFound matches a 404 response.
	ErrNotFound = errors.New("not found")

	// ErrInvalidProxyAddress is returned for a proxy that is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

	// ErrInvalidBaseURL is returned for a base URL that is not absolute http(s).
	ErrInvalidBaseURL = errors.New("invalid API base URL")
)

// APIError is a non-2xx backend response.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Detail is the backend's user-facing message, empty when none was sent.
	Detail string
	// Method and Path identify the failed call.
	Method string
	Path   string
}

// Error implements error.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// Detail returns the backend detail message carried by err, or "".
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// parseDetail extracts the "detail" field of an error body. FastAPI sends a
// string for handled errors and a list of {loc, msg} objects for validation
// errors.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	if string(envelope.Detail) == "null" {
		return ""
	}
	return string(envelope.Detail)
}
