// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"errors"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"
)

// Timeline is a monotonically increasing counter, that any number of
// goroutines may wait on, each for their own target value.
//
// Writes made by a goroutine before it calls Signal or SignalN are visible to
// any goroutine that subsequently observes the new value, via Wait, TryWait,
// or Value.
//
// The counter is 32 bits wide (the width of a futex word), and is not
// protected against overflow.
//
// The zero value is a Timeline at 0, using DefaultBackend.
// A Timeline must not be copied after first use.
type Timeline struct {
	_     noCopy
	opts  *options
	value atomic.Uint32
}

// NewTimeline returns a Timeline at 0, configured by opts.
func NewTimeline(opts ...Option) (*Timeline, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Timeline{opts: cfg}, nil
}

// Wait blocks until the counter is >= target.
func (x *Timeline) Wait(target uint32) {
	_ = x.wait(target, NoTimeout)
}

// WaitTimeout behaves like Wait, but returns ErrTimeout if the target has
// not been reached once timeout has elapsed. A negative timeout never
// expires.
func (x *Timeline) WaitTimeout(target uint32, timeout time.Duration) error {
	return x.wait(target, timeout)
}

// TryWait reports whether the counter is >= target, without blocking.
func (x *Timeline) TryWait(target uint32) bool {
	return x.value.Load() >= target
}

// Signal increments the counter by 1, see SignalN.
func (x *Timeline) Signal() uint32 {
	return x.SignalN(1)
}

// SignalN adds n to the counter, then wakes every waiter, returning the new
// value. Waiters are always woken, as they may be waiting on any target.
func (x *Timeline) SignalN(n uint32) uint32 {
	v := x.value.Add(n)
	if _, err := x.opts.getBackend().Wake(&x.value, WakeAll); err != nil {
		x.opts.logBackendError(`Timeline`, `wake`, x.addr(), err)
	}
	return v
}

// Value returns the current value of the counter. It is intended for
// computing the next target, and must not be used in place of TryWait, as the
// value may change immediately after it is read.
func (x *Timeline) Value() uint32 {
	return x.value.Load()
}

func (x *Timeline) wait(target uint32, timeout time.Duration) error {
	return waitWord(x.opts, `Timeline`, &x.value, func(v uint32) bool { return v >= target }, timeout)
}

func (x *Timeline) addr() uintptr {
	return uintptr(unsafe.Pointer(&x.value))
}

// waitWord blocks until done returns true, for the value of word, parking
// only while the word still holds the value that was just checked.
func waitWord(opts *options, primitive string, word *atomic.Uint32, done func(uint32) bool, timeout time.Duration) error {
	v := word.Load()
	if done(v) {
		return nil
	}
	backend := opts.getBackend()
	dl := newDeadline(opts.getClock(), timeout)
	for {
		remaining, ok := dl.remaining()
		if !ok {
			opts.logTimeout(primitive, uintptr(unsafe.Pointer(word)), timeout)
			return ErrTimeout
		}
		if err := backend.Wait(word, v, remaining); err != nil && !errors.Is(err, ErrTimeout) {
			err = wrapBackendError(`wait`, err)
			opts.logBackendError(primitive, `wait`, uintptr(unsafe.Pointer(word)), err)
			if timeout >= 0 {
				return err
			}
			runtime.Gosched()
		}
		v = word.Load()
		if done(v) {
			return nil
		}
	}
}
