package corostack

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Coroutine is an asymmetric, stackful coroutine whose body runs
// func(*Coroutine[A], A). A is the free-variable record the body closes
// over — Go's generics and closures are this package's realization of
// "packed call arguments": there is no separate argument-marshalling step,
// the compiler already does it.
//
// A zero-value Coroutine is not ready to run; construct one with New, or
// call Init on an uninitialized (or previously Deinit'd) value.
type Coroutine[A any] struct {
	status    *statusBox
	aff       affinity
	stk       *stack
	callerCtx machineContext
	coroCtx   machineContext
	env       executionEnvironment
	entry     entryState

	bodyTop         uintptr // aligned rsp the body starts from; high end of the sentinel-fillable range
	checkStackUsage bool
}

// New allocates a stack, builds the synthetic machine context, and returns
// a Coroutine ready for Run. Equivalent to calling Init on a zero value.
func New[A any](proc func(*Coroutine[A], A), args A, opts ...Option) (*Coroutine[A], error) {
	co := &Coroutine[A]{}
	if err := co.Init(proc, args, opts...); err != nil {
		return nil, err
	}
	return co, nil
}

// Init prepares c to run proc(c, args) on a private stack. c must be a
// zero value or have been Deinit'd; calling Init on an already-initialized
// Coroutine panics with ErrAlreadyInitialized.
func (c *Coroutine[A]) Init(proc func(*Coroutine[A], A), args A, opts ...Option) error {
	if c.status != nil && c.status.isInitialized() {
		violate("Init", ErrAlreadyInitialized)
	}

	cfg, err := resolveOptions(opts)
	if err != nil {
		return err
	}

	stk, err := newStack(cfg)
	if err != nil {
		return err
	}

	arenaSize := cfg.tempStorageSize
	if arenaSize > stk.size()/2 {
		_ = stk.release()
		return fmt.Errorf("corostack: temporary storage size %d leaves too little of the %d byte stack for the body", arenaSize, stk.size())
	}
	arenaLow := stk.high - arenaSize
	var arena []byte
	if arenaSize > 0 {
		arena = unsafe.Slice((*byte)(unsafe.Pointer(arenaLow)), int(arenaSize))
	}

	c.status = newStatusBox()
	c.aff = affinity{}
	c.aff.bind(goroutineID())
	c.stk = stk
	c.env = executionEnvironment{
		callerCtx: &c.callerCtx,
		coroCtx:   &c.coroCtx,
		status:    c.status,
		arena:     arena,
	}
	c.entry = entryState{
		env:    &c.env,
		status: c.status,
		run:    func() { proc(c, args) },
	}
	c.coroCtx = newInitialContext(arenaLow, unsafe.Pointer(&c.entry), stk.low, stk.high)
	c.bodyTop = alignDown(arenaLow)
	c.checkStackUsage = cfg.checkStackUsage
	if cfg.checkStackUsage {
		fillSentinel(stk.low, c.bodyTop)
	}
	c.status.store(statusSuspended)

	SDebug("lifecycle", "coroutine initialized", map[string]interface{}{
		"stackBytes":     stk.size(),
		"arenaBytes":     arenaSize,
		"guardPages":     cfg.guardPages,
		"ownedStack":     stk.owned,
		"checkStackUsage": cfg.checkStackUsage,
	})
	return nil
}

// Run resumes c until it next calls Yield or returns. It must be called
// from the same goroutine that initialized c.
func (c *Coroutine[A]) Run() {
	if c.status == nil || !c.status.isInitialized() {
		violate("Run", ErrNotInitialized)
	}
	if c.status.isDone() {
		violate("Run", ErrAlreadyDone)
	}
	if !c.aff.bind(goroutineID()) {
		violate("Run", ErrWrongThread)
	}
	if !c.status.tryTransition(statusSuspended, statusRunning) {
		violate("Run", ErrAlreadyRunning)
	}

	runtime.LockOSThread()
	contextSwitch(&c.callerCtx, &c.coroCtx)
	runtime.UnlockOSThread()
}

// Yield suspends the body, returning control to whichever Run call most
// recently resumed it. It must be called on the goroutine that is
// currently running c's body; calling it at any other time panics with
// ErrNotInCoroutine.
func (c *Coroutine[A]) Yield() {
	if c.status == nil || c.status.load() != statusRunning {
		violate("Yield", ErrNotInCoroutine)
	}
	c.env.yield()
}

// Arena returns the per-coroutine temporary scratch buffer carved out of
// c's own stack at Init (WithTemporaryStorageSize), for the body to use as
// throwaway storage across yields without involving the Go heap. It is only
// valid while the body is running; the design notes explain why nothing may
// hold a reference to it past the body's return.
func (c *Coroutine[A]) Arena() []byte {
	return c.env.arena
}

// IsDone reports whether the body has returned.
func (c *Coroutine[A]) IsDone() bool {
	return c.status != nil && c.status.isDone()
}

// IsInitialized reports whether c has been initialized and not yet
// Deinit'd. It stays true after the body returns.
func (c *Coroutine[A]) IsInitialized() bool {
	return c.status != nil && c.status.isInitialized()
}

// Deinit releases c's stack. Idempotent: calling it on a zero value, or a
// Coroutine already Deinit'd, is a silent no-op rather than an error.
func (c *Coroutine[A]) Deinit() error {
	if c.status == nil || !c.status.isInitialized() {
		return nil
	}
	if c.checkStackUsage {
		overflow, touched, ratio, ok := c.CheckStackUsage()
		if ok && overflow {
			SWarn("lifecycle", "coroutine deinitialized after stack overflow watermark", map[string]interface{}{
				"touchedBytes": touched,
				"ratio":        ratio,
			})
		}
	}
	c.status.store(statusUninitialized)
	err := c.stk.release()
	c.stk = nil
	return err
}
