// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"fmt"

	"github.com/joeycumines/goroutineid"
)

// ThreadID identifies the owner of an OwnedLock. Valid values are in the
// range [1, MaxThreadID].
type ThreadID uint32

// MaxThreadID is the largest ThreadID that fits in an OwnedLock word.
const MaxThreadID = ThreadID(OwnerMask)

// CurrentThreadID returns a ThreadID for the calling goroutine, derived from
// its goroutine ID. Values are unique among live goroutines, unless more than
// MaxThreadID goroutines have been started over the life of the process,
// after which IDs wrap.
//
// Callers on hot paths should obtain it once, and reuse it, as the lookup
// may fall back to parsing a stack trace on some platforms.
func CurrentThreadID() ThreadID {
	id := goroutineid.Get()
	if id <= 0 {
		panic(`futexsync: unable to determine goroutine id`)
	}
	return threadIDFromGoroutine(id)
}

// threadIDFromGoroutine folds a (positive) goroutine ID into
// [1, MaxThreadID].
func threadIDFromGoroutine(id int64) ThreadID {
	return ThreadID(uint64(id-1)%uint64(MaxThreadID) + 1)
}

// Valid reports whether the ThreadID may be used as an owner.
func (x ThreadID) Valid() bool {
	return x != 0 && x <= MaxThreadID
}

func (x ThreadID) mustValid() {
	if !x.Valid() {
		panic(fmt.Sprintf(`futexsync: invalid thread id %d`, uint32(x)))
	}
}
