package corostack

import (
	"runtime"
	"sync/atomic"
)

// goroutineID returns the calling goroutine's runtime ID. Go exposes no
// supported API for this; parsing it out of runtime.Stack's "goroutine N ["
// header is the standard workaround, and it is cheap enough to call on
// every Run (a handful of bytes, no allocation).
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}

// affinity pins a Coroutine to the goroutine that initialized it (Init
// calls bind). There is no migration: Run from any other goroutine is a
// contract violation.
type affinity struct {
	owner atomic.Uint64
}

// bind records g as the owning goroutine if none is bound yet, and reports
// whether g is (now, or already) the owner.
func (a *affinity) bind(g uint64) bool {
	if a.owner.CompareAndSwap(0, g) {
		return true
	}
	return a.owner.Load() == g
}
