package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoServerReachable is returned when every candidate URL failed at the
// transport level.
var ErrNoServerReachable = errors.New("no server reachable")

// NetworkError is a transport-level failure against one base URL: DNS,
// refused connection, reset, or the per-attempt timeout. Only this class of
// failure moves the client on to the next fallback URL.
type NetworkError struct {
	BaseURL string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error (%s): %v", e.BaseURL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError means the server answered with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (%d)", e.StatusCode)
}

// InvalidJSONError is a 2xx response whose body could not be read as JSON.
type InvalidJSONError struct {
	ContentType string
	Snippet     string
	Err         error
}

func (e *InvalidJSONError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid JSON response (%s): %v: %q", e.ContentType, e.Err, e.Snippet)
	}
	return fmt.Sprintf("invalid JSON response (%s): %q", e.ContentType, e.Snippet)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func IsInvalidJSON(err error) bool {
	var jsonErr *InvalidJSONError
	return errors.As(err, &jsonErr)
}
