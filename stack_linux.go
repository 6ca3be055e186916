//go:build linux

package corostack

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapStack is Linux-only: it hints to the kernel (and to tools walking
// /proc/self/maps) that this mapping backs a stack, not general-purpose
// heap memory. Darwin has no equivalent flag.
const mapStack = 0x20000 // unix.MAP_STACK

func pageSize() uintptr {
	return uintptr(os.Getpagesize())
}

// platformAllocStack maps usable bytes (already a multiple of the page
// size) flanked, if guard is true, by one inaccessible guard page on each
// side. The returned raw slice spans the full mapping including guard
// pages; low/high are the inner usable bounds, 16-byte aligned by
// construction since usable and pageSize both are.
func platformAllocStack(usable uintptr, guard bool) (raw []byte, low, high uintptr, err error) {
	ps := pageSize()
	guardSize := uintptr(0)
	if guard {
		guardSize = ps
	}
	total := usable + 2*guardSize

	b, err := unix.Mmap(-1, 0, int(total), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON|mapStack)
	if err != nil {
		return nil, 0, 0, wrapResourceError(ErrMapFailed, err)
	}

	base := uintptrOfSlice(b)
	low = base + guardSize
	high = low + usable

	if guard {
		if err := unix.Mprotect(b[:guardSize], unix.PROT_NONE); err != nil {
			_ = unix.Munmap(b)
			return nil, 0, 0, wrapResourceError(ErrProtectFailed, fmt.Errorf("low guard page: %w", err))
		}
		if err := unix.Mprotect(b[guardSize+usable:], unix.PROT_NONE); err != nil {
			_ = unix.Munmap(b)
			return nil, 0, 0, wrapResourceError(ErrProtectFailed, fmt.Errorf("high guard page: %w", err))
		}
	}

	return b, low, high, nil
}

func platformFreeStack(raw []byte) error {
	if err := unix.Munmap(raw); err != nil {
		return wrapResourceError(ErrUnmapFailed, err)
	}
	return nil
}
