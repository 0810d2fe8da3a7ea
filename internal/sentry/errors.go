package sentry

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// ErrMissingConfig is returned by New when the token or organization is empty.
var ErrMissingConfig = errors.New("sentry: api token and organization are required")

// TransportError reports a request that never produced an HTTP response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// NotFound reports whether the status usually means a wrong organization or
// project slug rather than a server-side failure.
func (e *HTTPStatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusBadRequest
}

// ParseError reports a response body that is not the JSON we expected.
type ParseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse response from %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to parse response from %s: %s", e.URL, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err carries a 404/400 response.
func IsNotFound(err error) bool {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.NotFound()
	}
	return false
}
