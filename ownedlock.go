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

// UnlockResult describes the outcome of a successful OwnedLock.Unlock.
type UnlockResult int

const (
	_ UnlockResult = iota
	// UnlockReleased indicates the lock was fully released, and no waiters
	// were recorded.
	UnlockReleased
	// UnlockWoke indicates the lock was fully released, and a waiter was
	// woken.
	UnlockWoke
	// UnlockStillHeld indicates the recursion count was decremented, but the
	// caller still owns the lock.
	UnlockStillHeld
)

// String returns a human-readable representation of the result.
func (r UnlockResult) String() string {
	switch r {
	case UnlockReleased:
		return "Released"
	case UnlockWoke:
		return "Woke"
	case UnlockStillHeld:
		return "StillHeld"
	default:
		return "Unknown"
	}
}

// OwnedLock is a recursive mutex, which records the ThreadID of its owner.
//
// Each successful Lock or TryLock by the owner must be matched by an Unlock,
// with the same ThreadID, before any other owner may acquire it. If the owner
// is known to have died while holding the lock, a supervisor calls
// MarkOwnerDied, after which every acquisition attempt (including recursive
// ones, by the recorded owner) fails with ErrNotRecoverable, until Reset.
//
// State machine (word layout: OwnerMask | OwnerDiedBit | WaitersBit):
//
//	0                      → tid           [Lock, TryLock]
//	tid                    → tid|Waiters   [contended Lock]
//	tid[|Waiters]          → 0             [final Unlock, waking one waiter]
//	any                    → any|OwnerDied [MarkOwnerDied]
//	any                    → 0             [Reset]
//
// The zero value is an unlocked OwnedLock, using DefaultBackend.
// An OwnedLock must not be copied after first use.
type OwnedLock struct {
	_    noCopy
	opts *options
	word atomic.Uint32
	// count is the recursion depth, only accessed by the owner
	count uint32
}

// NewOwnedLock returns an unlocked OwnedLock, configured by opts.
func NewOwnedLock(opts ...Option) (*OwnedLock, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &OwnedLock{opts: cfg}, nil
}

// Lock blocks until the lock is acquired by tid, or tid already owns it.
// It fails with ErrNotRecoverable if the lock is poisoned. Panics if tid is
// not valid.
func (x *OwnedLock) Lock(tid ThreadID) error {
	return x.lock(tid, NoTimeout)
}

// LockTimeout behaves like Lock, but returns ErrTimeout once timeout has
// elapsed, without acquiring the lock. A negative timeout never expires.
func (x *OwnedLock) LockTimeout(tid ThreadID, timeout time.Duration) error {
	return x.lock(tid, timeout)
}

// TryLock attempts to acquire the lock without blocking, returning ErrBusy
// if another owner holds it.
func (x *OwnedLock) TryLock(tid ThreadID) error {
	tid.mustValid()
	if x.word.CompareAndSwap(0, uint32(tid)) {
		x.count = 1
		return nil
	}
	for {
		cur := ownerState(x.word.Load())
		switch {
		case cur.ownerDied():
			return ErrNotRecoverable
		case cur.owner() == tid:
			x.count++
			return nil
		case cur.acquirable():
			if x.word.CompareAndSwap(uint32(cur), uint32(cur.acquiredBy(tid, false))) {
				x.count = 1
				return nil
			}
		default:
			return ErrBusy
		}
	}
}

// Unlock releases one level of ownership held by tid. Once the recursion
// count reaches zero, the lock is released, and one parked goroutine (if
// any were recorded) is woken. Returns ErrNotPermitted if tid is not the
// owner.
func (x *OwnedLock) Unlock(tid ThreadID) (UnlockResult, error) {
	if !tid.Valid() {
		return 0, ErrNotPermitted
	}
	cur := ownerState(x.word.Load())
	// count may only be read once ownership is confirmed
	if cur.owner() != tid || x.count == 0 {
		return 0, ErrNotPermitted
	}

	x.count--
	if x.count != 0 {
		return UnlockStillHeld, nil
	}

	// the word may only gain bits (waiters, owner died) while we own it
	for !x.word.CompareAndSwap(uint32(cur), uint32(cur.released())) {
		cur = ownerState(x.word.Load())
	}

	if !cur.waiters() {
		return UnlockReleased, nil
	}
	if _, err := x.opts.getBackend().Wake(&x.word, 1); err != nil {
		x.opts.logBackendError(`OwnedLock`, `wake`, x.addr(), err)
	}
	return UnlockWoke, nil
}

// MarkOwnerDied poisons the lock, e.g. once a supervisor learns that the
// owner terminated while holding it. All parked goroutines are woken, and
// will fail with ErrNotRecoverable.
func (x *OwnedLock) MarkOwnerDied() {
	prev := ownerState(x.word.Or(OwnerDiedBit))
	if prev.ownerDied() {
		return
	}
	x.opts.logOwnerDied(x.addr(), prev.owner())
	if _, err := x.opts.getBackend().Wake(&x.word, WakeAll); err != nil {
		x.opts.logBackendError(`OwnedLock`, `wake`, x.addr(), err)
	}
}

// Reset returns the lock to the unowned state, clearing any owner-died
// poison, and waking all parked goroutines.
//
// It must only be called while no live goroutine owns the lock.
func (x *OwnedLock) Reset() {
	x.count = 0
	prev := ownerState(x.word.Swap(0))
	x.opts.logReset(x.addr(), prev)
	if !prev.waiters() {
		return
	}
	if _, err := x.opts.getBackend().Wake(&x.word, WakeAll); err != nil {
		x.opts.logBackendError(`OwnedLock`, `wake`, x.addr(), err)
	}
}

// Owner returns the ThreadID of the current owner, or 0 if unowned. The
// result may be stale by the time it is observed.
func (x *OwnedLock) Owner() ThreadID {
	return ownerState(x.word.Load()).owner()
}

// Poisoned reports whether MarkOwnerDied has been called, since the last
// Reset.
func (x *OwnedLock) Poisoned() bool {
	return ownerState(x.word.Load()).ownerDied()
}

func (x *OwnedLock) lock(tid ThreadID, timeout time.Duration) error {
	tid.mustValid()

	// fast path
	if x.word.CompareAndSwap(0, uint32(tid)) {
		x.count = 1
		return nil
	}

	if x.opts.spin(func() bool { return x.tryAcquireFree(tid) }) {
		x.count = 1
		return nil
	}

	backend := x.opts.getBackend()
	assisted, _ := backend.(AssistedBackend)
	dl := newDeadline(x.opts.getClock(), timeout)

	// parked is set once this goroutine may have consumed a wake, after which
	// it must keep the waiters hint set, on behalf of any others
	var parked bool

	for {
		cur := ownerState(x.word.Load())

		if cur.ownerDied() {
			return ErrNotRecoverable
		}

		if cur.owner() == tid {
			x.count++
			return nil
		}

		if cur.acquirable() {
			if x.word.CompareAndSwap(uint32(cur), uint32(cur.acquiredBy(tid, parked))) {
				x.count = 1
				return nil
			}
			continue
		}

		if (parked || assisted == nil) && !cur.waiters() {
			if prev := ownerState(x.word.Or(WaitersBit)); prev != cur {
				continue
			}
			cur = ownerState(uint32(cur) | WaitersBit)
		}

		remaining, ok := dl.remaining()
		if !ok {
			x.opts.logTimeout(`OwnedLock`, x.addr(), timeout)
			return ErrTimeout
		}

		var err error
		if assisted != nil {
			err = assisted.WaitMarked(&x.word, uint32(cur), WaitersBit, remaining)
		} else {
			err = backend.Wait(&x.word, uint32(cur), remaining)
		}
		parked = true

		if err != nil && !errors.Is(err, ErrTimeout) {
			err = wrapBackendError(`wait`, err)
			x.opts.logBackendError(`OwnedLock`, `wait`, x.addr(), err)
			if timeout >= 0 {
				return err
			}
			runtime.Gosched()
		}
	}
}

// tryAcquireFree takes the lock only if it is unowned.
func (x *OwnedLock) tryAcquireFree(tid ThreadID) bool {
	cur := ownerState(x.word.Load())
	return cur.acquirable() && x.word.CompareAndSwap(uint32(cur), uint32(cur.acquiredBy(tid, false)))
}

func (x *OwnedLock) addr() uintptr {
	return uintptr(unsafe.Pointer(&x.word))
}
