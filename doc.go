// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package futexsync provides low-level mutual exclusion and wait/notify
// primitives, built directly on 32-bit atomic words plus an address-based
// blocking wait/wake facility (Linux futex semantics, or an equivalent).
//
// # Primitives
//
//   - [FastLock]: single word, non-recursive, non-owning mutex, with an
//     embedded "someone may be waiting" hint bit.
//   - [OwnedLock]: recursive, owner-tracked mutex, supporting robust
//     "owner died" poisoning.
//   - [Timeline]: monotonically increasing counter, with wait-until-reached
//     and signal-by-increment semantics.
//   - [WaitableAddress]: wait for a 32-bit value to satisfy a predicate,
//     signal by set and wake.
//
// All four are usable as zero values, and are intended to be embedded by
// value, within whatever structure needs exclusion or signaling. Zero values
// use [DefaultBackend] and the system clock. The New* constructors accept
// [Option] values, e.g. [WithBackend], [WithClock], [WithLogger].
//
// # Backends
//
// Blocking is delegated to a [Backend]:
//   - Linux: futex(2), via golang.org/x/sys/unix
//   - Windows: WaitOnAddress / WakeByAddress*, via golang.org/x/sys/windows
//   - Everything else: an emulated, address-keyed parking table, see
//     [NewEmulatedBackend]
//
// Backends are injected, rather than resolved from hidden global state, so
// tests may substitute fakes (see [Backend] for the contract).
//
// # Blocking and goroutines
//
// A goroutine parked in a native backend occupies an OS thread for the
// duration of the wait, exactly as any other blocking system call. Spurious
// wakeups are always tolerated: every wait loop in this package re-validates
// the awaited condition after any wake.
//
// # Errors
//
// Failures are reported synchronously, via the return value of the operation
// that detected them, as one of [ErrBusy], [ErrTimeout], [ErrNotRecoverable],
// or [ErrNotPermitted], or a wrapped backend error. Nothing is retried
// internally, with the exception of spurious returns from the backend.
package futexsync
