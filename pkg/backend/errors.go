package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers every failure to obtain a usable reply from the
	// search backend: transport errors, timeouts, non-2xx replies and
	// undecodable bodies.
	ErrNetwork = errors.New("search backend unavailable")

	// ErrEmptyQuery is returned when a fetch is attempted with a blank query.
	// Callers are expected to prevent this rather than show it.
	ErrEmptyQuery = errors.New("empty query")

	// ErrStaleResponse marks a reply that arrived after a newer request was
	// issued. It is discarded silently.
	ErrStaleResponse = errors.New("stale response")
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.StatusCode)
}

// Unwrap lets errors.Is(err, ErrNetwork) match status failures.
func (e *StatusError) Unwrap() error {
	return ErrNetwork
}
