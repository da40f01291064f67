// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockFunc(t *testing.T) {
	now := time.Unix(100, 0)
	assert.Equal(t, now, ClockFunc(func() time.Time { return now }).Now())
}

func TestDeadline(t *testing.T) {
	t.Run(`negative never expires`, func(t *testing.T) {
		d := newDeadline(newFakeClock(), NoTimeout)
		remaining, ok := d.remaining()
		assert.True(t, ok)
		assert.Equal(t, NoTimeout, remaining)

		var zero deadline
		_, ok = zero.remaining()
		assert.True(t, ok)
	})

	t.Run(`zero expires immediately`, func(t *testing.T) {
		_, ok := newDeadline(newFakeClock(), 0).remaining()
		assert.False(t, ok)
	})

	t.Run(`counts down`, func(t *testing.T) {
		clock := newFakeClock()
		d := newDeadline(clock, time.Second)

		remaining, ok := d.remaining()
		assert.True(t, ok)
		assert.Equal(t, time.Second, remaining)

		clock.Advance(400 * time.Millisecond)
		remaining, ok = d.remaining()
		assert.True(t, ok)
		assert.Equal(t, 600*time.Millisecond, remaining)

		clock.Advance(600 * time.Millisecond)
		remaining, ok = d.remaining()
		assert.False(t, ok)
		assert.Zero(t, remaining)
	})
}
