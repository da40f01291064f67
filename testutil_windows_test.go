// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build windows

package futexsync

func platformBackends() []namedBackend {
	if _, ok := defaultBackend.(WaitOnAddressBackend); !ok {
		return nil
	}
	return []namedBackend{{name: `waitonaddress`, new: func() Backend { return WaitOnAddressBackend{} }}}
}
