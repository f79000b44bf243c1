package gateway

import (
	"errors"
	"fmt"
)

// ErrDecode is wrapped by errors for response bodies that cannot be decoded.
var ErrDecode = errors.New("decode response")

// NetworkError is a transport failure: the request never got an HTTP
// response (connection refused, timeout, cancellation).
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx response from the backend.
type ServerError struct {
	Op     string
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.Status, e.Body)
}

// IsNotFound reports whether the backend answered 404.
func (e *ServerError) IsNotFound() bool {
	return e.Status == 404
}

func decodeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDecode, err)
}
