// ABOUTME: Error type shared by all sink backends
// ABOUTME: Carries the backend name, failed operation and native error code
package sink

import (
	"errors"
	"fmt"
)

var (
	ErrNotOpen     = errors.New("sink not open")
	ErrAlreadyOpen = errors.New("sink already open")
	ErrNotStarted  = errors.New("sink not started")
	ErrStarted     = errors.New("sink already started")
)

// Error is returned by every sink operation that fails
type Error struct {
	Backend string
	Op      string // "open", "start", "stop" or "close"
	Code    int    // native backend code, 0 if the backend has none
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s %s failed (code %d): %v", e.Backend, e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	return &Error{Backend: backend, Op: op, Err: err}
}
