package githubapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound marks a 404: repository or path absent (or private).
	ErrNotFound = errors.New("github: not found")
	// ErrRateLimited marks a 403: the anonymous quota is exhausted.
	ErrRateLimited = errors.New("github: rate limit exceeded")
	// ErrRemote marks any other non-2xx response.
	ErrRemote = errors.New("github: remote error")
)

// APIError classifies a non-2xx response into exactly one of the sentinel
// kinds while retaining the status and URL for diagnostics.
type APIError struct {
	Kind       error
	StatusCode int
	URL        string

	// RateLimit carries parsed quota headers when Kind is ErrRateLimited.
	RateLimit *RateLimit
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v (status %d, url %s)", e.Kind, e.StatusCode, e.URL)
}

func (e *APIError) Unwrap() error { return e.Kind }

func classifyStatus(resp *http.Response, url string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &APIError{Kind: ErrNotFound, StatusCode: resp.StatusCode, URL: url}
	case resp.StatusCode == http.StatusForbidden:
		rl := parseRateLimit(resp.Header)
		return &APIError{Kind: ErrRateLimited, StatusCode: resp.StatusCode, URL: url, RateLimit: rl}
	default:
		return &APIError{Kind: ErrRemote, StatusCode: resp.StatusCode, URL: url}
	}
}
