// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
)

// namedBackend pairs a Backend factory with a subtest name.
type namedBackend struct {
	name string
	new  func() Backend
}

// testBackends returns every backend usable on this platform, plus fakes
// that exercise the alternate code paths.
func testBackends() []namedBackend {
	return append(platformBackends(),
		namedBackend{name: `default`, new: DefaultBackend},
		namedBackend{name: `emulated`, new: func() Backend { return NewEmulatedBackend() }},
		namedBackend{name: `emulated_unassisted`, new: func() Backend { return unassistedBackend{NewEmulatedBackend()} }},
		namedBackend{name: `spurious`, new: func() Backend { return new(spuriousBackend) }},
	)
}

// forEachBackend runs fn as a parallel subtest, per backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, backend Backend)) {
	t.Helper()
	for _, b := range testBackends() {
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()
			fn(t, b.new())
		})
	}
}

// iterations scales stress loops down for the spurious backend, which spins.
func iterations(backend Backend, n int) int {
	if _, ok := backend.(*spuriousBackend); ok {
		return n / 10
	}
	return n
}

// unassistedBackend hides AssistedBackend, forcing manual staging of the
// waiters hint.
type unassistedBackend struct {
	b Backend
}

func (x unassistedBackend) Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error {
	return x.b.Wait(addr, expected, timeout)
}

func (x unassistedBackend) Wake(addr *atomic.Uint32, count int) (int, error) {
	return x.b.Wake(addr, count)
}

// spuriousBackend never parks: every Wait returns as a spurious wakeup, after
// yielding. It honours timeouts of 0.
type spuriousBackend struct {
	waits atomic.Int64
	wakes atomic.Int64
}

func (x *spuriousBackend) Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error {
	x.waits.Add(1)
	if timeout == 0 && addr.Load() == expected {
		return ErrTimeout
	}
	runtime.Gosched()
	return nil
}

func (x *spuriousBackend) Wake(addr *atomic.Uint32, count int) (int, error) {
	x.wakes.Add(1)
	return 0, nil
}

// countingBackend records calls, delegating to b.
type countingBackend struct {
	b     Backend
	waits atomic.Int64
	wakes atomic.Int64
}

func (x *countingBackend) Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error {
	x.waits.Add(1)
	return x.b.Wait(addr, expected, timeout)
}

func (x *countingBackend) Wake(addr *atomic.Uint32, count int) (int, error) {
	x.wakes.Add(1)
	return x.b.Wake(addr, count)
}

// failingBackend fails every call with err.
type failingBackend struct {
	err error
}

func (x failingBackend) Wait(*atomic.Uint32, uint32, time.Duration) error { return x.err }

func (x failingBackend) Wake(*atomic.Uint32, int) (int, error) { return 0, x.err }

// fakeClock only moves when advanced.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEvent is a minimal logiface.Event implementation, that records what
// was logged.
type testEvent struct {
	logiface.UnimplementedEvent
	fields map[string]any
	msg    string
	level  logiface.Level
}

func (e *testEvent) Level() logiface.Level { return e.level }

func (e *testEvent) AddField(key string, val any) {
	if e.fields == nil {
		e.fields = make(map[string]any)
	}
	e.fields[key] = val
}

func (e *testEvent) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

// captureLogger returns a logger at trace level, and a function returning
// the events written so far.
func captureLogger() (*logiface.Logger[logiface.Event], func() []*testEvent) {
	var (
		mu     sync.Mutex
		events []*testEvent
	)
	typed := logiface.New[*testEvent](
		logiface.WithEventFactory[*testEvent](logiface.NewEventFactoryFunc(func(level logiface.Level) *testEvent {
			return &testEvent{level: level}
		})),
		logiface.WithWriter[*testEvent](logiface.NewWriterFunc(func(event *testEvent) error {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			return nil
		})),
		logiface.WithLevel[*testEvent](logiface.LevelTrace),
	)
	return typed.Logger(), func() []*testEvent {
		mu.Lock()
		defer mu.Unlock()
		return append([]*testEvent(nil), events...)
	}
}

// waitParked blocks until n goroutines are parked on addr, which requires
// an EmulatedBackend, otherwise it sleeps briefly.
func waitParked(t *testing.T, backend Backend, addr *atomic.Uint32, n int) {
	t.Helper()
	e, ok := backend.(*EmulatedBackend)
	if !ok {
		if u, ok := backend.(unassistedBackend); ok {
			e, _ = u.b.(*EmulatedBackend)
		}
	}
	if e == nil {
		time.Sleep(20 * time.Millisecond)
		return
	}
	deadline := time.Now().Add(5 * time.Second)
	for e.Waiters(addr) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d parked waiters, have %d", n, e.Waiters(addr))
		}
		time.Sleep(time.Millisecond)
	}
}
