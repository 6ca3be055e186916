//go:build amd64 && !windows

package corostack

import "unsafe"

// machineContext is the synthetic CPU state switched between the caller
// and a coroutine, covering exactly the registers the SysV amd64 ABI
// requires a callee to preserve across a call: rbx, rbp, r12-r15, plus rsp
// and the resume address (rip), plus the two pieces of FPU/SSE state that
// outlive a call boundary (MXCSR, the x87 control word) but aren't part of
// the integer callee-saved set.
//
// Field order and sizes are load-bearing: contextswitch_amd64.s indexes
// into this struct by literal byte offset. Keep the two in sync; field
// offsets are pinned by align_test.go.
type machineContext struct {
	rsp   uintptr // +0
	rbp   uintptr // +8
	rbx   uintptr // +16
	r12   uintptr // +24
	r13   uintptr // +32
	r14   uintptr // +40
	r15   uintptr // +48
	rip   uintptr // +56
	mxcsr uint32  // +64
	x87cw uint16  // +68
	_     uint16  // +70, padding
	_     uint64  // +72, pads the struct to a multiple of 16 bytes
}

// contextSwitch saves the running machine state into from, then restores
// and resumes the state in to. It returns (by way of the saved rip in
// from) when some later contextSwitch targets from again.
//
// Implemented in contextswitch_amd64.s; no Go body exists for this
// function, so a non-amd64 or non-SysV-ABI build fails to link rather than
// silently falling back to something incorrect.
//
//go:noescape
func contextSwitch(from, to *machineContext)

// captureControlWords snapshots the calling thread's current MXCSR and x87
// control word, used to seed a freshly built machineContext so a
// coroutine's first entry inherits the creating thread's FP mode.
//
//go:noescape
func captureControlWords(mxcsr *uint32, x87cw *uint16)

// newInitialContext builds the synthetic state init hands to the first
// contextSwitch into a freshly allocated coroutine: rsp at the realigned
// top of its stack, rip at the trampoline, and self (a pointer to the
// coroutine's entryState) preloaded into r12 for the trampoline to forward
// to entryDispatch. low/high (the coroutine's usable stack bounds) are
// unused here; the Windows build needs them to seed the TIB stack fields.
func newInitialContext(rspTop uintptr, self unsafe.Pointer, low, high uintptr) machineContext {
	_, _ = low, high
	var mxcsr uint32
	var x87cw uint16
	captureControlWords(&mxcsr, &x87cw)
	return machineContext{
		rsp:   alignDown(rspTop),
		rip:   trampolineAddr(),
		r12:   uintptr(self),
		mxcsr: mxcsr,
		x87cw: x87cw,
	}
}
