//go:build linux

package corostack

import (
	"testing"

	"golang.org/x/sys/unix"
)

// TestPageSize_Linux cross-checks pageSize() against unix.Getpagesize so a
// drift between the cached value and what the kernel actually reports would
// show up immediately instead of silently misrounding stack allocations.
func TestPageSize_Linux(t *testing.T) {
	if got, want := pageSize(), uintptr(unix.Getpagesize()); got != want {
		t.Errorf("pageSize() = %d, want %d (unix.Getpagesize)", got, want)
	}
}

// TestPlatformAllocStack_GuardPagesFlankUsableRange verifies that with guard
// pages enabled, the returned [low, high) sits strictly inside the raw mmap
// region, with at least one page of headroom on each side.
func TestPlatformAllocStack_GuardPagesFlankUsableRange(t *testing.T) {
	raw, low, high, err := platformAllocStack(minStackSize, true)
	if err != nil {
		t.Fatalf("platformAllocStack: %v", err)
	}
	defer platformFreeStack(raw)

	base := uintptrOfSlice(raw)
	top := base + uintptr(len(raw))
	ps := pageSize()

	if low < base+ps {
		t.Errorf("usable low (%#x) does not leave a guard page below it (base %#x)", low, base)
	}
	if high > top-ps {
		t.Errorf("usable high (%#x) does not leave a guard page above it (top %#x)", high, top)
	}
}
