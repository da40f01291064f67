// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build linux

package futexsync

import (
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// futex(2) operations, see linux/futex.h.
const (
	futexWait        = 0
	futexWake        = 1
	futexPrivateFlag = 128

	futexWaitPrivate = futexWait | futexPrivateFlag
	futexWakePrivate = futexWake | futexPrivateFlag
)

var defaultBackend Backend = FutexBackend{}

// FutexBackend implements Backend using the Linux futex(2) system call, with
// FUTEX_PRIVATE_FLAG (the words are never shared across processes).
//
// A goroutine parked in Wait occupies an OS thread, for the duration of the
// system call.
//
// FutexBackend does not implement AssistedBackend, so OwnedLock stages its
// waiters bit with an atomic fetch-or before each Wait.
type FutexBackend struct{}

// Wait implements Backend.Wait, using FUTEX_WAIT with a relative timeout.
func (FutexBackend) Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error {
	var ts *unix.Timespec
	if timeout >= 0 {
		v := unix.NsecToTimespec(int64(timeout))
		ts = &v
	}
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWaitPrivate,
		uintptr(expected),
		uintptr(unsafe.Pointer(ts)),
		0,
		0,
	)
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		// woken, value already changed, or interrupted by a signal
		return nil
	case unix.ETIMEDOUT:
		return ErrTimeout
	default:
		return &BackendError{Op: `futex wait`, Cause: errno}
	}
}

// Wake implements Backend.Wake, using FUTEX_WAKE.
func (FutexBackend) Wake(addr *atomic.Uint32, count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	if count > WakeAll {
		count = WakeAll
	}
	n, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWakePrivate,
		uintptr(count),
		0,
		0,
		0,
	)
	if errno != 0 {
		return 0, &BackendError{Op: `futex wake`, Cause: errno}
	}
	return int(n), nil
}
