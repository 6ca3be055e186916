package corostack

import (
	"fmt"
	"unsafe"
)

// entryState is the type-erased descriptor the trampoline hands to
// entryDispatch. New[A] builds one of these, closing run over the generic
// A and proc so nothing generic has to cross the assembly boundary.
type entryState struct {
	env    *executionEnvironment
	status *statusBox
	run    func()
}

// entryDispatch is the only Go function the hand-written assembly in
// trampoline_amd64.s calls. It installs the coroutine's execution
// environment, runs the body, and performs the final switch back to the
// caller once the body returns or panics.
//
// A panic from run never propagates across this boundary: there is no
// run/yield boundary crossing for exceptions in this package's contract, so
// a panicking body is recovered and logged here. State beyond the handle is
// undefined afterward; the body must report failure to its caller through
// its own arguments, not by panicking.
func entryDispatch(selfPtr unsafe.Pointer) {
	state := (*entryState)(selfPtr)
	g := goroutineID()
	registerRunningEnv(g, state.env)

	func() {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				SError("lifecycle", "coroutine body panicked", err, map[string]interface{}{
					"recovered": r,
				})
			}
		}()
		state.run()
	}()

	unregisterRunningEnv(g)
	state.status.store(statusDone)
	contextSwitch(state.env.coroCtx, state.env.callerCtx)

	// contextSwitch never returns here: statusDone means no later Run will
	// ever target this coroutine's context again.
	panic("corostack: resumed a coroutine after completion")
}
