// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build windows

package futexsync

import (
	"errors"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modSynch = windows.NewLazySystemDLL(`api-ms-win-core-synch-l1-2-0.dll`)

	procWaitOnAddress       = modSynch.NewProc(`WaitOnAddress`)
	procWakeByAddressSingle = modSynch.NewProc(`WakeByAddressSingle`)
	procWakeByAddressAll    = modSynch.NewProc(`WakeByAddressAll`)
)

var defaultBackend = newDefaultBackend()

// newDefaultBackend falls back to the emulated backend on systems that
// predate WaitOnAddress (Windows 8).
func newDefaultBackend() Backend {
	if procWaitOnAddress.Find() != nil ||
		procWakeByAddressSingle.Find() != nil ||
		procWakeByAddressAll.Find() != nil {
		return NewEmulatedBackend()
	}
	return WaitOnAddressBackend{}
}

// WaitOnAddressBackend implements Backend using the Windows WaitOnAddress
// family of functions. Timeouts have millisecond granularity, and are rounded
// up.
type WaitOnAddressBackend struct{}

// Wait implements Backend.Wait.
func (WaitOnAddressBackend) Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error {
	ms := uint32(windows.INFINITE)
	if timeout >= 0 {
		ms = durationToMillis(timeout)
	}
	r1, _, err := procWaitOnAddress.Call(
		uintptr(unsafe.Pointer(addr)),
		uintptr(unsafe.Pointer(&expected)),
		unsafe.Sizeof(expected),
		uintptr(ms),
	)
	if r1 != 0 {
		return nil
	}
	if errors.Is(err, windows.ERROR_TIMEOUT) {
		return ErrTimeout
	}
	return &BackendError{Op: `WaitOnAddress`, Cause: err}
}

// Wake implements Backend.Wake. The number of woken waiters is not reported
// by the platform, so the returned count is always 0.
func (WaitOnAddressBackend) Wake(addr *atomic.Uint32, count int) (int, error) {
	switch {
	case count <= 0:
	case count >= WakeAll:
		_, _, _ = procWakeByAddressAll.Call(uintptr(unsafe.Pointer(addr)))
	default:
		for range count {
			_, _, _ = procWakeByAddressSingle.Call(uintptr(unsafe.Pointer(addr)))
		}
	}
	return 0, nil
}

// durationToMillis rounds up, and stays below INFINITE.
func durationToMillis(d time.Duration) uint32 {
	ms := (d + time.Millisecond - 1) / time.Millisecond
	if ms >= windows.INFINITE {
		return windows.INFINITE - 1
	}
	return uint32(ms)
}
