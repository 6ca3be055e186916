// Package corostack provides asymmetric, stackful coroutines for x86-64
// user space on Linux, Darwin, and Windows.
//
// A [Coroutine] runs its body on a private stack. The body voluntarily
// suspends by calling [Yield], which returns control to whichever call to
// [Coroutine.Run] most recently resumed it; the next [Coroutine.Run] resumes
// the body at the instruction following that [Yield], with every local
// variable in the body's frame intact. Exactly one coroutine runs per owning
// thread at a time: this is cooperative, not preemptive, multitasking.
//
// # Architecture
//
// Init allocates a stack ([stack]) and builds a synthetic [machineContext]
// whose resume target is a small assembly trampoline. Init itself performs no
// switch into the coroutine, so nothing runs on the coroutine's stack before
// the first [Coroutine.Run]. That first Run enters the trampoline, which
// bridges into Go, installs the per-coroutine [executionEnvironment], and
// calls the body directly, with no separate switch back to the caller before
// user code runs. Every later [Coroutine.Run] /
// [Coroutine.Yield] pair is a symmetric, hand-written context switch between
// the caller-side and coroutine-side machine contexts, saving and restoring
// exactly the non-volatile register set each platform ABI mandates.
//
// # Platform Support
//
// The context switch is amd64-only. The register-save assembly differs per
// OS because the Windows x64 ABI additionally mandates preserving xmm6-15
// and the four Thread Information Block stack fields read from gs:[0x30]:
//
//   - Linux, Darwin: SysV amd64 ABI, mmap/mprotect-backed stacks.
//   - Windows: Microsoft x64 ABI, VirtualAlloc/VirtualProtect-backed stacks,
//     TIB stack-field swapping on every switch.
//
// On any other GOARCH the context-switch assembly symbols are simply absent,
// so the package fails to link rather than silently misbehaving.
//
// # Thread Affinity
//
// A coroutine is pinned to the goroutine that calls [New] (or [Coroutine.Init]
// directly), not to whichever goroutine happens to call [Coroutine.Run]
// first; every [Coroutine.Run] call asserts this and panics with
// [ErrWrongThread] on a mismatch, even the very first one if the handle was
// handed off to another goroutine before ever running. There is no
// migration, no preemption, and no cross-coroutine symmetric transfer — the
// caller is the scheduler.
//
// # Usage
//
//	type fibArgs struct{ n *uint64 }
//
//	var out uint64
//	co, err := corostack.New(func(c *corostack.Coroutine[fibArgs], a fibArgs) {
//		var x, y uint64 = 0, 1
//		for {
//			*a.n = x
//			c.Yield()
//			x, y = y, x+y
//		}
//	}, fibArgs{n: &out})
//	if err != nil {
//		panic(err)
//	}
//	defer co.Deinit()
//
//	for i := 0; i < 10 && !co.IsDone(); i++ {
//		co.Run()
//	}
//
// # Error Types
//
// Two families of failure are reported, matching the contract-violation vs.
// resource-failure split described in the package's design notes:
//
//   - Contract violations ([ErrAlreadyInitialized], [ErrNotInitialized],
//     [ErrAlreadyDone], [ErrWrongThread], [ErrNotInCoroutine],
//     [ErrAlreadyRunning]) are programmer errors: they panic immediately
//     via [ContractViolation]. The one exception is [Coroutine.Deinit]:
//     deinit is idempotent, so calling it on a zero value or an
//     already-deinitialized handle is a silent no-op rather than an
//     [ErrNotInitialized] panic.
//   - Resource failures ([ErrAllocFailed], [ErrMapFailed], [ErrProtectFailed],
//     [ErrUnmapFailed]) are returned from [New] and [Coroutine.Deinit] so
//     callers can decide policy.
package corostack
