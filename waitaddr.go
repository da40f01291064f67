// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"sync/atomic"
	"time"
	"unsafe"
)

// WaitableAddress is a 32-bit word that goroutines may wait on, until it
// holds an expected value, or satisfies a predicate. Unlike Timeline, the
// value need not be monotonic, so a waiter may miss a value that is
// overwritten before it re-checks the word.
//
// The zero value holds 0, and uses DefaultBackend.
// A WaitableAddress must not be copied after first use.
type WaitableAddress struct {
	_     noCopy
	opts  *options
	value atomic.Uint32
}

// NewWaitableAddress returns a WaitableAddress holding initial, configured
// by opts.
func NewWaitableAddress(initial uint32, opts ...Option) (*WaitableAddress, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	x := &WaitableAddress{opts: cfg}
	x.value.Store(initial)
	return x, nil
}

// WaitValue blocks until the word holds expected.
func (x *WaitableAddress) WaitValue(expected uint32) {
	_ = x.WaitValueTimeout(expected, NoTimeout)
}

// WaitValueTimeout behaves like WaitValue, but returns ErrTimeout if the
// word does not hold expected once timeout has elapsed.
func (x *WaitableAddress) WaitValueTimeout(expected uint32, timeout time.Duration) error {
	return waitWord(x.opts, `WaitableAddress`, &x.value, func(v uint32) bool { return v == expected }, timeout)
}

// WaitFunc blocks until done returns true, for the value of the word. It is
// called each time the goroutine wakes, and must not block.
func (x *WaitableAddress) WaitFunc(done func(value uint32) bool) {
	_ = x.WaitFuncTimeout(done, NoTimeout)
}

// WaitFuncTimeout behaves like WaitFunc, but returns ErrTimeout if done has
// not returned true once timeout has elapsed.
func (x *WaitableAddress) WaitFuncTimeout(done func(value uint32) bool, timeout time.Duration) error {
	return waitWord(x.opts, `WaitableAddress`, &x.value, done, timeout)
}

// TryValue reports whether the word holds expected, without blocking.
func (x *WaitableAddress) TryValue(expected uint32) bool {
	return x.value.Load() == expected
}

// SetAndSignal stores value, then wakes every waiter.
func (x *WaitableAddress) SetAndSignal(value uint32) {
	x.value.Store(value)
	if _, err := x.opts.getBackend().Wake(&x.value, WakeAll); err != nil {
		x.opts.logBackendError(`WaitableAddress`, `wake`, uintptr(unsafe.Pointer(&x.value)), err)
	}
}

// Load returns the current value of the word.
func (x *WaitableAddress) Load() uint32 {
	return x.value.Load()
}
