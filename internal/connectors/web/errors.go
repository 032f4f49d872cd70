package web

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnsupportedScheme is returned for locations that are not http(s) URLs.
	ErrUnsupportedScheme = errors.New("web: unsupported location scheme")

	// ErrBodyTooLarge is returned when a response exceeds the configured size cap.
	ErrBodyTooLarge = errors.New("web: response body too large")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URI        string
	StatusCode int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("web: %s returned status %d", e.URI, e.StatusCode)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	switch e.StatusCode {
	case 408, 425, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
