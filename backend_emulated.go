// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// emulatedBuckets must be a power of 2.
const emulatedBuckets = 256

// EmulatedBackend is a portable Backend, which parks goroutines in an
// address-keyed table of wait queues, rather than in the kernel. It is the
// default on platforms without a native address wait facility, and may be
// used anywhere, e.g. in tests.
//
// Waiters are tracked per bucket, under a mutex that is also held while the
// waiter re-validates the word, so a Wake that follows a store to the word
// can never miss a waiter that observed the old value.
//
// EmulatedBackend also implements AssistedBackend.
//
// The zero value is ready to use. It must not be copied after first use.
type EmulatedBackend struct {
	buckets [emulatedBuckets]parkingBucket
}

type parkingBucket struct { // betteralign:ignore
	mu   sync.Mutex
	head *parkedWaiter
	tail *parkedWaiter
	_    [sizeOfCacheLine]byte //nolint:unused
}

type parkedWaiter struct {
	addr  *atomic.Uint32
	ready chan struct{}
	prev  *parkedWaiter
	next  *parkedWaiter
	// queued is protected by the bucket mutex
	queued bool
}

var _ AssistedBackend = (*EmulatedBackend)(nil)

// NewEmulatedBackend returns a new, independent, EmulatedBackend.
//
// Note that wakes only reach waiters parked via the same EmulatedBackend.
func NewEmulatedBackend() *EmulatedBackend {
	return new(EmulatedBackend)
}

// Wait implements Backend.Wait.
func (x *EmulatedBackend) Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error {
	return x.park(addr, expected, 0, timeout)
}

// WaitMarked implements AssistedBackend.WaitMarked.
func (x *EmulatedBackend) WaitMarked(addr *atomic.Uint32, expected, bits uint32, timeout time.Duration) error {
	return x.park(addr, expected, bits, timeout)
}

// Wake implements Backend.Wake, waking waiters in FIFO order.
func (x *EmulatedBackend) Wake(addr *atomic.Uint32, count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	b := x.bucket(addr)
	b.mu.Lock()
	var n int
	for w := b.head; w != nil && n < count; {
		next := w.next
		if w.addr == addr {
			b.remove(w)
			close(w.ready)
			n++
		}
		w = next
	}
	b.mu.Unlock()
	return n, nil
}

// Waiters returns the number of goroutines currently parked on addr.
func (x *EmulatedBackend) Waiters(addr *atomic.Uint32) int {
	b := x.bucket(addr)
	b.mu.Lock()
	defer b.mu.Unlock()
	var n int
	for w := b.head; w != nil; w = w.next {
		if w.addr == addr {
			n++
		}
	}
	return n
}

func (x *EmulatedBackend) park(addr *atomic.Uint32, expected, bits uint32, timeout time.Duration) error {
	b := x.bucket(addr)

	b.mu.Lock()
	if addr.Load() != expected {
		b.mu.Unlock()
		return nil
	}
	if timeout == 0 {
		b.mu.Unlock()
		return ErrTimeout
	}
	if expected|bits != expected && !addr.CompareAndSwap(expected, expected|bits) {
		b.mu.Unlock()
		return nil
	}
	w := &parkedWaiter{
		addr:  addr,
		ready: make(chan struct{}),
	}
	b.push(w)
	b.mu.Unlock()

	if timeout < 0 {
		<-w.ready
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.ready:
		return nil
	case <-timer.C:
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if w.queued {
		b.remove(w)
		return ErrTimeout
	}
	// a wake raced with the timer, and consumed this waiter
	return nil
}

func (x *EmulatedBackend) bucket(addr *atomic.Uint32) *parkingBucket {
	return &x.buckets[hashAddr(uintptr(unsafe.Pointer(addr)))&(emulatedBuckets-1)]
}

func (b *parkingBucket) push(w *parkedWaiter) {
	w.queued = true
	w.prev = b.tail
	w.next = nil
	if b.tail == nil {
		b.head = w
	} else {
		b.tail.next = w
	}
	b.tail = w
}

func (b *parkingBucket) remove(w *parkedWaiter) {
	if w.prev == nil {
		b.head = w.next
	} else {
		w.prev.next = w.next
	}
	if w.next == nil {
		b.tail = w.prev
	} else {
		w.next.prev = w.prev
	}
	w.prev = nil
	w.next = nil
	w.queued = false
}

// hashAddr is the 64-bit finalizer from MurmurHash3, words are 4-byte
// aligned so the low bits carry no information.
func hashAddr(addr uintptr) uint64 {
	h := uint64(addr) >> 2
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}
