package gateway

import (
	"errors"
	"net/http"
)

// ErrUnavailable marks network-level failures: the backend could not be
// reached or did not answer in time.
var ErrUnavailable = errors.New("server unavailable")

// Error is the single failure type returned by Call. Message is safe to show
// to users; transport detail is logged, never carried here.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Status == http.StatusNotFound
}

func unavailable(err error) *Error {
	return &Error{Message: ErrUnavailable.Error(), Err: errors.Join(ErrUnavailable, err)}
}

// retryable reports failures worth another attempt for idempotent requests.
func (e *Error) retryable() bool {
	if errors.Is(e.Err, ErrUnavailable) {
		return true
	}
	switch e.Status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
