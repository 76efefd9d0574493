package remote

import (
	"fmt"

	"github.com/pkg/errors"
)

// DefaultServerMessage is reported when a failed response carries no message.
const DefaultServerMessage = "Something went wrong"

var (
	// ErrAuthMissing means no bearer token is available. Re-authenticating is
	// the caller's job; nothing in this package retries it.
	ErrAuthMissing = errors.New("authentication token is missing")

	// ErrStaleOperation marks the result of an operation whose session ended
	// before it completed. Such results are dropped and must not reach users.
	ErrStaleOperation = errors.New("stale operation result discarded")
)

// NetworkError means the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-success response. Message is shown to users as is.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// IsRecoverable reports whether the failed operation may be retried by the caller.
func IsRecoverable(err error) bool {
	var netErr *NetworkError
	var srvErr *ServerError
	return errors.As(err, &netErr) || errors.As(err, &srvErr)
}

// IsStale reports whether err should be silently discarded.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleOperation)
}
