//go:build darwin

package corostack

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func pageSize() uintptr {
	return uintptr(os.Getpagesize())
}

// platformAllocStack mirrors the Linux implementation but omits MAP_STACK,
// which Darwin's mmap does not define.
func platformAllocStack(usable uintptr, guard bool) (raw []byte, low, high uintptr, err error) {
	ps := pageSize()
	guardSize := uintptr(0)
	if guard {
		guardSize = ps
	}
	total := usable + 2*guardSize

	b, err := unix.Mmap(-1, 0, int(total), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
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
