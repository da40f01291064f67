// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"fmt"
)

// FastLock word layout.
const (
	// LockedBit is set while a FastLock is held.
	LockedBit uint32 = 1 << 0
	// WaitingBit is set while at least one goroutine may be parked on a
	// FastLock. False positives only cost a wake call, false negatives would
	// lose a wakeup.
	WaitingBit uint32 = 1 << 1
)

// OwnedLock word layout, the same as a Linux robust futex word.
const (
	// OwnerMask selects the ThreadID of the owner, 0 meaning unowned.
	OwnerMask uint32 = 0x3FFFFFFF
	// OwnerDiedBit is set once the holder is known to have died while owning
	// the lock. It persists until OwnedLock.Reset.
	OwnerDiedBit uint32 = 0x40000000
	// WaitersBit has the same role as WaitingBit, for OwnedLock.
	WaitersBit uint32 = 0x80000000
)

// lockState is a snapshot of a FastLock word.
type lockState uint32

func (s lockState) locked() bool  { return uint32(s)&LockedBit != 0 }
func (s lockState) waiting() bool { return uint32(s)&WaitingBit != 0 }

func (s lockState) String() string {
	return fmt.Sprintf("lockState{locked=%t waiting=%t}", s.locked(), s.waiting())
}

// ownerState is a snapshot of an OwnedLock word.
type ownerState uint32

func (s ownerState) owner() ThreadID { return ThreadID(uint32(s) & OwnerMask) }
func (s ownerState) ownerDied() bool { return uint32(s)&OwnerDiedBit != 0 }
func (s ownerState) waiters() bool   { return uint32(s)&WaitersBit != 0 }

// acquirable reports if the lock may be taken by a CAS from this state.
func (s ownerState) acquirable() bool { return uint32(s)&(OwnerMask|OwnerDiedBit) == 0 }

// acquiredBy returns the state to install when tid takes the lock, keeping the
// waiters hint if it was already set, or if the caller has been parked.
func (s ownerState) acquiredBy(tid ThreadID, parked bool) ownerState {
	v := uint32(tid) | uint32(s)&WaitersBit
	if parked {
		v |= WaitersBit
	}
	return ownerState(v)
}

// released returns the state to install when the owner releases the lock.
// The owner-died poison is retained.
func (s ownerState) released() ownerState { return ownerState(uint32(s) & OwnerDiedBit) }

func (s ownerState) String() string {
	return fmt.Sprintf("ownerState{owner=%d died=%t waiters=%t}", s.owner(), s.ownerDied(), s.waiters())
}

// noCopy may be embedded into structs which must not be copied after first
// use, see https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
