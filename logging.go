// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"time"
)

// The helpers in this file are only called from slow paths, after a
// goroutine has already been parked, or is about to return an error.

func (x *options) logBackendError(primitive, op string, addr uintptr, err error) {
	x.getLogger().Err().
		Str(`primitive`, primitive).
		Str(`op`, op).
		Uint64(`addr`, uint64(addr)).
		Err(err).
		Log(`backend call failed`)
}

func (x *options) logTimeout(primitive string, addr uintptr, timeout time.Duration) {
	x.getLogger().Debug().
		Str(`primitive`, primitive).
		Uint64(`addr`, uint64(addr)).
		Dur(`timeout`, timeout).
		Log(`timed out`)
}

func (x *options) logOwnerDied(addr uintptr, owner ThreadID) {
	x.getLogger().Warning().
		Uint64(`addr`, uint64(addr)).
		Uint64(`owner`, uint64(owner)).
		Log(`owned lock poisoned, owner died`)
}

func (x *options) logReset(addr uintptr, prev ownerState) {
	x.getLogger().Notice().
		Uint64(`addr`, uint64(addr)).
		Uint64(`owner`, uint64(prev.owner())).
		Bool(`owner_died`, prev.ownerDied()).
		Log(`owned lock reset`)
}
