package corostack

// These constants are verified against runtime reality by align_test.go.
const (
	// sizeOfCacheLine is the size used for cache-line padding. x86-64 uses
	// 64 bytes; this package only targets amd64, but pads to match
	// golang.org/x/sys/cpu.CacheLinePad so a mixed-arch build tree stays
	// consistent.
	sizeOfCacheLine = 64

	// sizeOfAtomicUint32 is the size of an atomic.Uint32 variable.
	sizeOfAtomicUint32 = 4

	// stackAlignment is the mandatory alignment, in bytes, of both ends of
	// a coroutine's usable stack and of rsp at every switch boundary.
	stackAlignment = 16
)
