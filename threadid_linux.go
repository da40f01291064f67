// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build linux

package futexsync

import (
	"golang.org/x/sys/unix"
)

// OSThreadID returns the kernel thread ID of the calling OS thread.
//
// It is only a stable identity for goroutines pinned to their thread, via
// [runtime.LockOSThread], for the lifetime of any lock they own.
func OSThreadID() ThreadID {
	return ThreadID(unix.Gettid())
}
