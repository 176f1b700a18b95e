package gateway

import (
	"errors"
	"fmt"
)

// User-facing messages produced by the gateway itself.
const (
	MsgPleaseLogin    = "please login"
	MsgSessionExpired = "session expired, please login again"
	MsgTimeout        = "request timed out"
)

var (
	// ErrAuthExpired matches errors built from a 401 response.
	ErrAuthExpired = errors.New("session expired")
	// ErrNotLoggedIn matches admin calls refused locally for lack of a token.
	ErrNotLoggedIn = errors.New("not logged in")
)

// Result is the uniform outcome of every gateway call. Failures never surface
// as panics or raw transport errors; they come back with Success == false and a
// message fit to show the admin.
type Result[T any] struct {
	Success     bool
	Data        T
	Message     string
	AuthExpired bool
	// Status is the HTTP status, or 0 when no response was received.
	Status int
}

// Err converts a failed result into an *Error. It returns nil on success.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return &Error{Status: r.Status, Message: r.Message, AuthExpired: r.AuthExpired}
}

type Error struct {
	Status      int
	Message     string
	AuthExpired bool
	notLoggedIn bool
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuthExpired:
		return e.AuthExpired
	case ErrNotLoggedIn:
		return e.notLoggedIn || e.Message == MsgPleaseLogin
	}
	return false
}

func failed[T any](e *Error) Result[T] {
	return Result[T]{Message: e.Message, AuthExpired: e.AuthExpired, Status: e.Status}
}

func succeeded[T any](status int, data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message, Status: status}
}
