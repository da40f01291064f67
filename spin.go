// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"runtime"
)

// spin calls try up to activeSpin times, then up to passiveSpin times,
// yielding the processor before each attempt, returning true as soon as try
// does. It is a no-op with the default (zero) configuration.
func (x *options) spin(try func() bool) bool {
	if x == nil {
		return false
	}
	for i := 0; i < x.activeSpin; i++ {
		if try() {
			return true
		}
	}
	for i := 0; i < x.passiveSpin; i++ {
		runtime.Gosched()
		if try() {
			return true
		}
	}
	return false
}
