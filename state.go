package corostack

import (
	"sync/atomic"
)

// status represents where a Coroutine sits in its lifecycle.
//
// State Machine:
//
//	statusUninitialized (0) → statusSuspended (1)  [New / Init]
//	statusSuspended (1)     → statusRunning (2)    [Run]
//	statusRunning (2)       → statusSuspended (1)  [body calls Yield]
//	statusRunning (2)       → statusDone (3)       [body returns]
//	{any}                   → statusUninitialized  [Deinit]
//
// statusDone→statusRunning and statusUninitialized→{statusRunning,
// statusSuspended-via-Yield} are contract violations (AlreadyDone,
// NotInitialized, NotInCoroutine respectively) and never happen through
// tryTransition; callers check status.isDone/isInitialized first.
type status uint32

const (
	statusUninitialized status = iota
	statusSuspended
	statusRunning
	statusDone
)

// String returns a human-readable representation of the status.
func (s status) String() string {
	switch s {
	case statusUninitialized:
		return "uninitialized"
	case statusSuspended:
		return "suspended"
	case statusRunning:
		return "running"
	case statusDone:
		return "done"
	default:
		return "unknown"
	}
}

// statusBox is a lock-free state cell, cache-line padded so the hot
// Run/Yield transition on one coroutine never false-shares with a neighbor
// coroutine's statusBox when many Coroutines are held in one slice.
type statusBox struct { // betteralign:ignore
	_ [sizeOfCacheLine]byte
	v atomic.Uint32
	_ [sizeOfCacheLine - sizeOfAtomicUint32]byte
}

// newStatusBox returns a statusBox in statusUninitialized.
func newStatusBox() *statusBox {
	b := &statusBox{}
	b.v.Store(uint32(statusUninitialized))
	return b
}

// load returns the current status.
func (b *statusBox) load() status {
	return status(b.v.Load())
}

// store unconditionally sets the status. Used for the transitions nothing
// races with: Init, Deinit, the body's own Yield/resume bookkeeping, and
// marking statusDone (the body is the sole writer of its own completion).
func (b *statusBox) store(s status) {
	b.v.Store(uint32(s))
}

// tryTransition performs a CAS from `from` to `to`.
func (b *statusBox) tryTransition(from, to status) bool {
	return b.v.CompareAndSwap(uint32(from), uint32(to))
}

// isInitialized reports whether the box has left statusUninitialized and
// has not been returned to it by Deinit.
func (b *statusBox) isInitialized() bool {
	return b.load() != statusUninitialized
}

// isDone reports whether the coroutine body has returned.
func (b *statusBox) isDone() bool {
	return b.load() == statusDone
}
