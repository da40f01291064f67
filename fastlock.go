// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// FastLock is a single word, non-recursive mutex, which does not record its
// owner. Any goroutine may call Unlock, though it is only valid to do so
// while the lock is held.
//
// The zero value is an unlocked FastLock, using DefaultBackend.
// A FastLock must not be copied after first use.
type FastLock struct {
	_    noCopy
	opts *options
	word atomic.Uint32
}

// NewFastLock returns an unlocked FastLock, configured by opts.
func NewFastLock(opts ...Option) (*FastLock, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &FastLock{opts: cfg}, nil
}

// Lock blocks until the lock is acquired.
//
// Backend failures are not surfaced (see LockTimeout), and are treated as
// spurious wakeups.
func (x *FastLock) Lock() {
	_ = x.lock(NoTimeout)
}

// LockTimeout behaves like Lock, but returns ErrTimeout once timeout has
// elapsed, without acquiring the lock. A negative timeout never expires.
// Unexpected backend failures are returned as a *BackendError.
func (x *FastLock) LockTimeout(timeout time.Duration) error {
	return x.lock(timeout)
}

// TryLock attempts to acquire the lock without blocking.
func (x *FastLock) TryLock() bool {
	return !lockState(x.word.Or(LockedBit)).locked()
}

// Unlock releases the lock, waking all parked goroutines if the waiting hint
// was set, and returns true if a wake was issued.
//
// Calling Unlock when the lock is not held is a programming error, and is not
// detected.
func (x *FastLock) Unlock() bool {
	if !lockState(x.word.Swap(0)).waiting() {
		return false
	}
	if _, err := x.opts.getBackend().Wake(&x.word, WakeAll); err != nil {
		x.opts.logBackendError(`FastLock`, `wake`, x.addr(), err)
	}
	return true
}

// Locked reports whether the lock is currently held. The result may be stale
// by the time it is observed.
func (x *FastLock) Locked() bool {
	return lockState(x.word.Load()).locked()
}

// Locker returns a sync.Locker backed by x.
func (x *FastLock) Locker() sync.Locker {
	return (*fastLocker)(x)
}

func (x *FastLock) lock(timeout time.Duration) error {
	// fast path
	if x.TryLock() {
		return nil
	}

	if x.opts.spin(x.trySpin) {
		return nil
	}

	backend := x.opts.getBackend()
	dl := newDeadline(x.opts.getClock(), timeout)
	for {
		remaining, ok := dl.remaining()
		if !ok {
			x.opts.logTimeout(`FastLock`, x.addr(), timeout)
			return ErrTimeout
		}

		// set the hint before parking, so the holder's Unlock will wake us
		if lockState(x.word.Or(WaitingBit)).locked() {
			if err := backend.Wait(&x.word, LockedBit|WaitingBit, remaining); err != nil && !errors.Is(err, ErrTimeout) {
				err = wrapBackendError(`wait`, err)
				x.opts.logBackendError(`FastLock`, `wait`, x.addr(), err)
				if timeout >= 0 {
					return err
				}
				runtime.Gosched()
			}
		}

		// other goroutines may still be parked, so keep the hint
		if !lockState(x.word.Or(LockedBit | WaitingBit)).locked() {
			return nil
		}
	}
}

func (x *FastLock) trySpin() bool {
	return !lockState(x.word.Load()).locked() && x.TryLock()
}

func (x *FastLock) addr() uintptr {
	return uintptr(unsafe.Pointer(&x.word))
}

type fastLocker FastLock

func (x *fastLocker) Lock()   { (*FastLock)(x).Lock() }
func (x *fastLocker) Unlock() { (*FastLock)(x).Unlock() }
