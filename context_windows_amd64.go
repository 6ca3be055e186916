//go:build amd64 && windows

package corostack

import "unsafe"

// machineContext is the Windows x64 analogue of the SysV machineContext in
// context_amd64.go. The Microsoft x64 ABI's callee-saved set is wider: rdi
// and rsi (volatile under SysV) must be preserved, as must xmm6-xmm15. A
// coroutine switch also has to swap four Thread Information Block fields
// (reached via the TEB self-pointer at gs:[0x30]) so stack-probing and SEH
// code see the coroutine's own stack while it runs: NT_TIB.StackBase at
// gs:[0x08], NT_TIB.StackLimit at gs:[0x10], DeallocationStack at
// gs:[0x1478] (what __chkstk and SEH stack-overflow recovery consult —
// the true floor of the mapping, below StackLimit when guard pages are
// present), and the ArbitraryUserPointer fiber-local-storage slot at
// gs:[0x20].
//
// Field order and sizes are load-bearing: contextswitch_windows_amd64.s
// indexes into this struct by literal byte offset. Keep the two in sync;
// field offsets are pinned by align_test.go.
type machineContext struct {
	rsp           uintptr     // +0
	rbp           uintptr     // +8
	rbx           uintptr     // +16
	rdi           uintptr     // +24
	rsi           uintptr     // +32
	r12           uintptr     // +40
	r13           uintptr     // +48
	r14           uintptr     // +56
	r15           uintptr     // +64
	rip           uintptr     // +72
	mxcsr         uint32      // +80
	x87cw         uint16      // +84
	_             uint16      // +86, padding
	xmm           [10][2]uint64 // +88, xmm6..xmm15, 16 bytes each
	tebStackBase         uintptr // +248
	tebStackLimit        uintptr // +256
	tebDeallocationStack uintptr // +264
	tebFiberStorage      uintptr // +272
	_                    uintptr // +280, pads the struct to a multiple of 16 bytes
}

// contextSwitch saves the running machine state (including the TIB stack
// bounds and xmm6-15) into from, then restores and resumes the state in
// to. See context_amd64.go for the non-Windows counterpart.
//
//go:noescape
func contextSwitch(from, to *machineContext)

// captureControlWords snapshots the calling thread's current MXCSR and x87
// control word, used to seed a freshly built machineContext so a
// coroutine's first entry inherits the creating thread's FP mode.
//
//go:noescape
func captureControlWords(mxcsr *uint32, x87cw *uint16)

// captureFiberStorage reads the calling thread's current TEB
// ArbitraryUserPointer / FLS slot (gs:[0x30]+0x20), implemented in
// contextswitch_windows_amd64.s.
//
//go:noescape
func captureFiberStorage() uintptr

// newInitialContext builds the synthetic state init hands to the first
// contextSwitch into a freshly allocated coroutine. low/high are the
// coroutine's own usable stack bounds: they seed tebStackBase/
// tebStackLimit so the very first switch already installs this
// coroutine's stack into the TIB, exactly as every later switch does.
// tebDeallocationStack is conservatively seeded to low — this package's
// stacks are fixed-size and never grown by __chkstk, so the coroutine's
// own usable floor is a safe stand-in for the true VirtualAlloc base.
// tebFiberStorage is snapshotted from the initializing thread, since a
// coroutine otherwise has no fiber-local state of its own (the snapshot-
// at-init, patch-on-Run model DESIGN.md records for the rest of the
// execution environment).
func newInitialContext(rspTop uintptr, self unsafe.Pointer, low, high uintptr) machineContext {
	var mxcsr uint32
	var x87cw uint16
	captureControlWords(&mxcsr, &x87cw)
	return machineContext{
		rsp:                  alignDown(rspTop),
		rip:                  trampolineAddr(),
		r12:                  uintptr(self),
		mxcsr:                mxcsr,
		x87cw:                x87cw,
		tebStackBase:         high,
		tebStackLimit:        low,
		tebDeallocationStack: low,
		tebFiberStorage:      captureFiberStorage(),
	}
}
