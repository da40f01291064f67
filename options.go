// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package futexsync

import (
	"errors"

	"github.com/joeycumines/logiface"
)

// options holds the configuration shared by all primitives. A nil *options
// is valid, and resolves to the defaults.
type options struct {
	backend     Backend
	clock       Clock
	logger      *logiface.Logger[logiface.Event]
	activeSpin  int
	passiveSpin int
}

// --- Options ---

// Option configures a primitive, see the New* constructors.
type Option interface {
	apply(*options) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyFunc func(*options) error
}

func (o *optionImpl) apply(opts *options) error {
	return o.applyFunc(opts)
}

// WithBackend sets the Backend used to park and wake goroutines.
// Defaults to DefaultBackend.
func WithBackend(backend Backend) Option {
	return &optionImpl{func(opts *options) error {
		if backend == nil {
			return errors.New("futexsync: nil backend")
		}
		opts.backend = backend
		return nil
	}}
}

// WithClock sets the Clock used to evaluate timeouts.
// Defaults to SystemClock.
func WithClock(clock Clock) Option {
	return &optionImpl{func(opts *options) error {
		if clock == nil {
			return errors.New("futexsync: nil clock")
		}
		opts.clock = clock
		return nil
	}}
}

// WithLogger attaches a structured logger. Only slow paths log: unexpected
// backend failures, timeouts (debug), and owner death or recovery of an
// OwnedLock. A nil logger disables logging (the default).
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *options) error {
		opts.logger = logger
		return nil
	}}
}

// WithSpin configures the locks to re-check the lock word active times, then
// to yield the processor passive times, before parking.
// Both default to 0, meaning contended locks park immediately.
func WithSpin(active, passive int) Option {
	return &optionImpl{func(opts *options) error {
		if active < 0 || passive < 0 {
			return errors.New("futexsync: negative spin count")
		}
		opts.activeSpin = active
		opts.passiveSpin = passive
		return nil
	}}
}

// resolveOptions applies Option instances to options.
func resolveOptions(opts []Option) (*options, error) {
	cfg := &options{
		clock: systemClock{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (x *options) getBackend() Backend {
	if x != nil && x.backend != nil {
		return x.backend
	}
	return defaultBackend
}

func (x *options) getClock() Clock {
	if x != nil && x.clock != nil {
		return x.clock
	}
	return systemClock{}
}

func (x *options) getLogger() *logiface.Logger[logiface.Event] {
	if x != nil {
		return x.logger
	}
	return nil
}
