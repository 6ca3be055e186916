package corostack

import (
	"errors"
	"fmt"
)

// Contract violations. These are programmer errors: calling an operation
// outside the state the coroutine's status machine (state.go) permits. They
// surface as a panic carrying *ContractViolation rather than a returned
// error — the spec treats them as asserts, because the caller broke the
// sequencing contract and the remedy is a code fix, not a retry.
var (
	ErrAlreadyInitialized = errors.New("corostack: coroutine is already initialized")
	ErrNotInitialized     = errors.New("corostack: coroutine is not initialized")
	ErrAlreadyDone        = errors.New("corostack: coroutine has already completed")
	ErrWrongThread        = errors.New("corostack: Run called from a goroutine other than the one that initialized the coroutine")
	ErrNotInCoroutine     = errors.New("corostack: Yield called outside of a running coroutine")
	ErrAlreadyRunning     = errors.New("corostack: Run called reentrantly on an already-running coroutine")
)

// Resource failures. These come from the stack provider (stack.go and its
// per-OS implementations) and are returned, not panicked, from New and
// Deinit so the caller can decide policy.
var (
	ErrAllocFailed   = errors.New("corostack: stack allocation failed")
	ErrMapFailed     = errors.New("corostack: stack mapping failed")
	ErrProtectFailed = errors.New("corostack: guard page protection failed")
	ErrUnmapFailed   = errors.New("corostack: stack unmapping failed")
)

// ContractViolation wraps one of the Err* contract-violation sentinels above
// with the operation that detected it, so a panic recovered at a test or
// top-level boundary still carries useful context.
//
// ContractViolation implements error and Unwrap, so errors.Is(recovered,
// ErrWrongThread) works on a recovered panic value.
type ContractViolation struct {
	Cause     error
	Operation string
}

// Error implements the error interface.
func (e *ContractViolation) Error() string {
	if e.Operation == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Cause)
}

// Unwrap returns the underlying sentinel for errors.Is/errors.As matching.
func (e *ContractViolation) Unwrap() error {
	return e.Cause
}

// violate panics with a *ContractViolation wrapping cause, tagged with the
// operation that detected it.
func violate(operation string, cause error) {
	panic(&ContractViolation{Operation: operation, Cause: cause})
}

// wrapResourceError attaches context to one of the resource-failure
// sentinels without discarding the platform error underneath it.
func wrapResourceError(sentinel error, platformErr error) error {
	if platformErr == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %v", sentinel, platformErr)
}
