// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build linux

package futexsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutexBackend_manualStaging(t *testing.T) {
	var backend Backend = FutexBackend{}
	_, ok := backend.(AssistedBackend)
	require.False(t, ok)
	assert.Equal(t, backend, DefaultBackend())

	l := newTestOwnedLock(t, WithBackend(backend))
	require.NoError(t, l.Lock(1))
	require.ErrorIs(t, l.LockTimeout(2, 20*time.Millisecond), ErrTimeout)
	// the waiters bit was staged by the waiter, not the backend
	assert.Equal(t, 1|WaitersBit, l.word.Load())

	res, err := l.Unlock(1)
	require.NoError(t, err)
	assert.Equal(t, UnlockWoke, res)
	assert.Zero(t, l.word.Load())
}
