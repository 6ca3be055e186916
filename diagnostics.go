package corostack

import "unsafe"

// stackSentinelByte fills the unused portion of a coroutine's stack when
// WithCheckStackUsage is enabled. 0xC0 is an otherwise-improbable constant
// to find in legitimate stack contents (not a valid pointer, not a common
// small integer).
const stackSentinelByte = 0xC0

// fillSentinel writes the sentinel byte across [low, high).
func fillSentinel(low, high uintptr) {
	if high <= low {
		return
	}
	region := unsafe.Slice((*byte)(unsafe.Pointer(low)), int(high-low))
	for i := range region {
		region[i] = stackSentinelByte
	}
}

// CheckStackUsage scans the coroutine's stack for the deepest point the
// sentinel fill written at Init has been overwritten, and returns an
// estimate of the body's peak usage so far. It requires
// WithCheckStackUsage(true) and is advisory only: guard pages, not this
// scan, are what actually stop a stack overflow from corrupting memory.
//
// overflow reports whether usage reached all the way down to the lowest
// byte of the fillable region, i.e. even the lowest byte no longer holds the
// sentinel and the scan has no evidence the body stayed clear of the guard
// page.
// touchedBytes is the distance from the deepest overwritten byte found to
// the top of the region; ratio is touchedBytes over the region's length.
//
// ok is false if the coroutine was not initialized with stack-usage
// checking enabled.
func (c *Coroutine[A]) CheckStackUsage() (overflow bool, touchedBytes uintptr, ratio float64, ok bool) {
	if c.stk == nil || !c.checkStackUsage {
		return false, 0, 0, false
	}
	region := unsafe.Slice((*byte)(unsafe.Pointer(c.stk.low)), int(c.bodyTop-c.stk.low))
	for i, b := range region {
		if b != stackSentinelByte {
			touchedBytes = uintptr(len(region) - i)
			return i == 0, touchedBytes, float64(touchedBytes) / float64(len(region)), true
		}
	}
	return false, 0, 0, true
}
