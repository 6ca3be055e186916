package corostack

// trampoline is the first-resume-only assembly stub; see
// trampoline_amd64.s. It is never called from Go, only jumped into by
// contextSwitch when a synthetic machineContext's rip points at it.
//
//go:noescape
func trampoline()

// trampolineAddr returns trampoline's entry address, computed at link time
// by the assembly symbol reference in trampoline_amd64.s. init uses this
// to build a coroutine's first machineContext.
//
//go:noescape
func trampolineAddr() uintptr
