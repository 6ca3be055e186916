// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corostack

import "errors"

// Build-time parameters, exposed as per-call functional options rather than
// compile-time constants: a knob a caller can override at New time,
// defaulting to the package-level constants below.
const (
	// DefaultStackSize is used when no WithStackSize option is given.
	DefaultStackSize = 256 * 1024

	// DefaultTemporaryStorageSize is the size of the per-coroutine arena
	// carved out of the coroutine's own stack, used when no
	// WithTemporaryStorageSize option is given.
	DefaultTemporaryStorageSize = 4 * 1024

	// minStackSize is the smallest stack New will accept for an owned
	// allocation; below this the trampoline and entry shim cannot fit.
	minStackSize = 16 * 1024
)

var errOwnedAndBorrowedStack = errors.New("corostack: WithBuffer and WithStackSize are mutually exclusive")

// coroutineOptions holds resolved configuration for a single New call.
type coroutineOptions struct {
	stackSize       uintptr
	tempStorageSize uintptr
	guardPages      bool
	checkStackUsage bool
	buffer          []byte
	bufferSet       bool
}

// --- Coroutine Options ---

// Option configures a Coroutine at construction.
type Option interface {
	applyCoroutine(*coroutineOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyCoroutineFunc func(*coroutineOptions) error
}

func (o *optionImpl) applyCoroutine(opts *coroutineOptions) error {
	return o.applyCoroutineFunc(opts)
}

// WithStackSize requests an owned stack of at least n bytes, rounded up to
// a whole number of OS pages plus guard pages if enabled. Mutually
// exclusive with WithBuffer.
func WithStackSize(n uintptr) Option {
	return &optionImpl{func(opts *coroutineOptions) error {
		if opts.bufferSet {
			return errOwnedAndBorrowedStack
		}
		opts.stackSize = n
		return nil
	}}
}

// WithBuffer supplies a caller-owned stack buffer. It is used as-is, after
// clipping both ends to 16-byte alignment, is never released by Deinit, and
// never receives guard pages. Mutually exclusive with WithStackSize.
func WithBuffer(buf []byte) Option {
	return &optionImpl{func(opts *coroutineOptions) error {
		if opts.stackSize != 0 {
			return errOwnedAndBorrowedStack
		}
		opts.buffer = buf
		opts.bufferSet = true
		return nil
	}}
}

// WithGuardPages toggles flanking an owned stack allocation with
// inaccessible guard pages. Defaults to true. Has no effect on a supplied
// buffer (WithBuffer), which is never guarded.
func WithGuardPages(enabled bool) Option {
	return &optionImpl{func(opts *coroutineOptions) error {
		opts.guardPages = enabled
		return nil
	}}
}

// WithTemporaryStorageSize sets the size, in bytes, of the per-coroutine
// scratch arena Init carves out of the coroutine's own stack.
func WithTemporaryStorageSize(n uintptr) Option {
	return &optionImpl{func(opts *coroutineOptions) error {
		opts.tempStorageSize = n
		return nil
	}}
}

// WithCheckStackUsage enables the sentinel-byte stack watermark
// (Coroutine.CheckStackUsage, diagnostics.go). It is advisory and distinct
// from guard pages, which are the real overflow protection.
func WithCheckStackUsage(enabled bool) Option {
	return &optionImpl{func(opts *coroutineOptions) error {
		opts.checkStackUsage = enabled
		return nil
	}}
}

// resolveOptions applies Option values over the package defaults.
func resolveOptions(opts []Option) (*coroutineOptions, error) {
	cfg := &coroutineOptions{
		tempStorageSize: DefaultTemporaryStorageSize,
		guardPages:      true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyCoroutine(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.bufferSet {
		cfg.stackSize = 0
	} else if cfg.stackSize == 0 {
		cfg.stackSize = DefaultStackSize
	} else if cfg.stackSize < minStackSize {
		cfg.stackSize = minStackSize
	}
	return cfg, nil
}
