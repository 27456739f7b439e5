package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired is returned after a 401 on any authenticated call.
	// The stored token has already been cleared when it is returned.
	ErrSessionExpired = errors.New("session expired")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrNotFound       = errors.New("not found")
)

// StatusError is a response outside the 2xx range.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Path, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// StatusMessage returns the server-provided message of a *StatusError in
// err's chain, or "" when err carries none.
func StatusMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

// IsTransport reports whether err never produced an HTTP response.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	return !errors.As(err, &se) && !errors.Is(err, ErrSessionExpired)
}
