// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

// sizeOfCacheLine pads each parking bucket of EmulatedBackend onto its own
// cache line. 128 covers ARM64 (e.g. Apple Silicon), and is double the
// x86-64 line size.
const sizeOfCacheLine = 128
