//go:build windows

package corostack

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

func pageSize() uintptr {
	var si windows.SystemInfo
	windows.GetSystemInfo(&si)
	return uintptr(si.PageSize)
}

// platformAllocStack reserves and commits usable+2*guard bytes via
// VirtualAlloc, then marks the flanking guard regions PAGE_NOACCESS via
// VirtualProtect. PAGE_NOACCESS rather than PAGE_GUARD: PAGE_GUARD clears
// itself after the first access exception, which would only catch the
// first overflow. A permanently inaccessible region matches the Unix
// PROT_NONE guard page semantics this package exposes everywhere else.
func platformAllocStack(usable uintptr, guard bool) (raw []byte, low, high uintptr, err error) {
	ps := pageSize()
	guardSize := uintptr(0)
	if guard {
		guardSize = ps
	}
	total := usable + 2*guardSize

	addr, err := windows.VirtualAlloc(0, total, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, 0, 0, wrapResourceError(ErrAllocFailed, err)
	}

	raw = unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(total))
	low = addr + guardSize
	high = low + usable

	if guard {
		var old uint32
		if err := windows.VirtualProtect(addr, guardSize, windows.PAGE_NOACCESS, &old); err != nil {
			_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
			return nil, 0, 0, wrapResourceError(ErrProtectFailed, fmt.Errorf("low guard page: %w", err))
		}
		if err := windows.VirtualProtect(addr+guardSize+usable, guardSize, windows.PAGE_NOACCESS, &old); err != nil {
			_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
			return nil, 0, 0, wrapResourceError(ErrProtectFailed, fmt.Errorf("high guard page: %w", err))
		}
	}

	return raw, low, high, nil
}

func platformFreeStack(raw []byte) error {
	addr := uintptrOfSlice(raw)
	if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
		return wrapResourceError(ErrUnmapFailed, err)
	}
	return nil
}
