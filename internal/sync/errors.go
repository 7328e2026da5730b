package sync

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

var (
	// ErrAlreadySettled is the panic value for resolving or failing a future
	// that is already settled. This is a defect in the caller, not a
	// recoverable condition.
	ErrAlreadySettled = errors.New("future already settled")

	// ErrNotHeld is the panic value for releasing a lock that is not held.
	ErrNotHeld = errors.New("lock not held")

	ErrCoroutineAlreadyFinished = errors.New("coroutine already finished")
)

// PanicError is the failure outcome of a coroutine body that panicked. It
// propagates to waiters like any other computation failure.
type PanicError struct {
	message    string
	stacktrace string
}

func (pe *PanicError) Error() string {
	return pe.message
}

func (pe *PanicError) Stacktrace() string {
	return pe.stacktrace
}

func newPanicError(v interface{}) *PanicError {
	return &PanicError{
		message:    fmt.Sprintf("panic: %v", v),
		stacktrace: string(goerrors.Wrap(v, 3).Stack()),
	}
}
