// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned by a try-acquire operation that failed because the
	// lock is held by another owner.
	ErrBusy = errors.New("futexsync: lock is busy")

	// ErrTimeout is returned when a deadline elapsed while blocked.
	// Backends must return (an error wrapping) ErrTimeout from Backend.Wait,
	// when the timeout elapses.
	ErrTimeout = errors.New("futexsync: timed out")

	// ErrNotRecoverable is returned when acquiring an OwnedLock whose previous
	// holder died while owning it. The lock remains poisoned until
	// OwnedLock.Reset is called.
	ErrNotRecoverable = errors.New("futexsync: lock owner died, state not recoverable")

	// ErrNotPermitted is returned when unlocking an OwnedLock that is not
	// held by the calling thread.
	ErrNotPermitted = errors.New("futexsync: operation not permitted, lock not held by caller")
)

// BackendError wraps an unexpected failure reported by a Backend.
type BackendError struct {
	Cause error
	// Op is the backend operation that failed, e.g. "wait" or "wake".
	Op string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("futexsync: backend %s failed", e.Op)
	}
	return fmt.Sprintf("futexsync: backend %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// wrapBackendError passes through nil and ErrTimeout, and wraps anything else.
func wrapBackendError(op string, err error) error {
	if err == nil || errors.Is(err, ErrTimeout) {
		return err
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Cause: err}
}
