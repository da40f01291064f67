// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"math"
	"sync/atomic"
	"time"
)

const (
	// WakeAll may be passed as the count to Backend.Wake, to wake every
	// waiter parked on the address.
	WakeAll = math.MaxInt32

	// NoTimeout may be passed as the timeout to Backend.Wait, to wait
	// indefinitely. Any negative duration has the same meaning.
	NoTimeout time.Duration = -1
)

// Backend is the platform wait/wake facility, that all primitives in this
// package block through.
//
// Wait must block only if *addr == expected, at the moment the backend
// checks, and must return nil immediately if the value already differs. It
// may return nil spuriously, at any time. It must return (an error wrapping)
// ErrTimeout if the timeout elapses. A negative timeout waits indefinitely.
//
// Wake wakes up to count goroutines (or all of them, for WakeAll) parked in
// Wait on addr, returning how many were woken, if known. Waking an address
// with no waiters must be a side-effect-free no-op.
//
// Implementations must be safe for concurrent use.
type Backend interface {
	Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error
	Wake(addr *atomic.Uint32, count int) (int, error)
}

// AssistedBackend is a Backend that can also register a waiter hint on the
// caller's behalf, atomically with parking.
//
// WaitMarked behaves like Wait, except that, if *addr == expected, it sets
// bits in *addr, and parks, as a single step relative to Wake on the same
// address. It returns nil immediately if *addr != expected.
//
// OwnedLock uses this capability when it is available, in place of setting
// its waiters bit prior to calling Wait.
type AssistedBackend interface {
	Backend
	WaitMarked(addr *atomic.Uint32, expected, bits uint32, timeout time.Duration) error
}

// DefaultBackend returns the process-wide backend for the current platform,
// which is used by zero value primitives.
func DefaultBackend() Backend {
	return defaultBackend
}
