// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build linux

package futexsync

func platformBackends() []namedBackend {
	return []namedBackend{{name: `futex`, new: func() Backend { return FutexBackend{} }}}
}
