package corostack

import (
	"fmt"
	"unsafe"
)

// uintptrOfSlice returns the address of buf's backing array. Panics if buf
// is empty; callers must have already checked that buf is non-empty.
func uintptrOfSlice(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(&buf[0]))
}

// stack describes one coroutine's machine stack: the usable [low, high)
// range the context switch and the running body are allowed to touch, plus
// whatever bookkeeping is needed to release it.
//
// high is the top of the stack (x86-64 stacks grow down; Init reserves the
// temporary arena just below high and starts the body's rsp beneath it);
// low is the lowest address the coroutine may write to. Both are mandated 16-byte
// aligned (stackAlignment) so a fresh machineContext never has to special-
// case misaligned bounds.
type stack struct {
	low, high uintptr
	raw       []byte // the full OS allocation, including guard pages; nil for a borrowed buffer
	owned     bool   // true if release() must unmap/free raw
}

// alignDown rounds x down to a multiple of stackAlignment.
func alignDown(x uintptr) uintptr {
	return x &^ (stackAlignment - 1)
}

// alignUp rounds x up to a multiple of stackAlignment.
func alignUp(x uintptr) uintptr {
	return (x + stackAlignment - 1) &^ (stackAlignment - 1)
}

// newStack builds a stack per cfg: either mapping a fresh OS allocation
// (cfg.buffer unset) or adopting a caller-supplied buffer (cfg.buffer set).
func newStack(cfg *coroutineOptions) (*stack, error) {
	if cfg.bufferSet {
		return newBorrowedStack(cfg.buffer)
	}
	return newOwnedStack(cfg.stackSize, cfg.guardPages)
}

// newBorrowedStack adopts a caller-owned buffer as a coroutine stack. The
// usable range is the buffer's extent clipped inward to 16-byte alignment;
// it is never unmapped or freed by release. Undersized buffers are not
// rejected here — the caller is responsible for sizing them; only a buffer
// that alignment-clips to nothing fails.
func newBorrowedStack(buf []byte) (*stack, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("corostack: supplied buffer is empty")
	}
	base := uintptrOfSlice(buf)
	low := alignUp(base)
	high := alignDown(base + uintptr(len(buf)))
	if high <= low {
		return nil, fmt.Errorf("corostack: supplied buffer has no 16-byte aligned usable range")
	}
	return &stack{low: low, high: high, owned: false}, nil
}

// newOwnedStack maps a fresh stack of at least size bytes, rounding up to a
// whole number of OS pages, optionally flanked by guard pages.
func newOwnedStack(size uintptr, guard bool) (*stack, error) {
	if size < minStackSize {
		size = minStackSize
	}
	ps := pageSize()
	usable := (size + ps - 1) / ps * ps

	raw, low, high, err := platformAllocStack(usable, guard)
	if err != nil {
		return nil, err
	}
	return &stack{low: low, high: high, raw: raw, owned: true}, nil
}

// release unmaps an owned stack. It is a no-op for a borrowed buffer.
func (s *stack) release() error {
	if !s.owned || s.raw == nil {
		return nil
	}
	raw := s.raw
	s.raw = nil
	s.low, s.high = 0, 0
	return platformFreeStack(raw)
}

// size returns the usable stack size in bytes.
func (s *stack) size() uintptr {
	return s.high - s.low
}
