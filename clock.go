// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"time"
)

// Clock is the time source used to compute deadlines, for operations that
// accept a timeout.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

type systemClock struct{}

var _ Clock = ClockFunc(nil)

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Now implements Clock.
func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the Clock backed by [time.Now].
func SystemClock() Clock { return systemClock{} }

// deadline tracks the remaining time for a blocking operation. The zero
// value never expires.
type deadline struct {
	clock Clock
	at    time.Time
	set   bool
}

// newDeadline returns a deadline that never expires, for negative timeouts.
func newDeadline(clock Clock, timeout time.Duration) deadline {
	if timeout < 0 {
		return deadline{}
	}
	return deadline{
		clock: clock,
		at:    clock.Now().Add(timeout),
		set:   true,
	}
}

// remaining returns the timeout to pass to Backend.Wait, or ok=false if the
// deadline has elapsed.
func (d deadline) remaining() (timeout time.Duration, ok bool) {
	if !d.set {
		return NoTimeout, true
	}
	timeout = d.at.Sub(d.clock.Now())
	if timeout <= 0 {
		return 0, false
	}
	return timeout, true
}
