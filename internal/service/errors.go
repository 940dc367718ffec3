package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the server reports a missing resource.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated is returned when the server does not recognize the
	// current credentials.
	ErrUnauthenticated = errors.New("not authenticated")
)

// APIError is a non-2xx response whose body carried a message. The message
// is surfaced to the user verbatim; the attempt is terminal, never retried.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// NetworkError is a transport-level failure: the request never produced a
// decodable response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }
