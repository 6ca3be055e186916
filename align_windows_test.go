//go:build amd64 && windows

package corostack

import (
	"testing"
	"unsafe"
)

// TestMachineContextAlignment_Windows pins the byte offsets
// contextswitch_windows_amd64.s indexes by literal constant: rdi/rsi (the
// two extra callee-saved GPRs under the Microsoft x64 ABI), the xmm6-15
// block, and the four TIB fields.
func TestMachineContextAlignment_Windows(t *testing.T) {
	var mc machineContext

	cases := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"rdi", unsafe.Offsetof(mc.rdi), 24},
		{"rsi", unsafe.Offsetof(mc.rsi), 32},
		{"r12", unsafe.Offsetof(mc.r12), 40},
		{"rip", unsafe.Offsetof(mc.rip), 72},
		{"mxcsr", unsafe.Offsetof(mc.mxcsr), 80},
		{"x87cw", unsafe.Offsetof(mc.x87cw), 84},
		{"xmm", unsafe.Offsetof(mc.xmm), 88},
		{"tebStackBase", unsafe.Offsetof(mc.tebStackBase), 248},
		{"tebStackLimit", unsafe.Offsetof(mc.tebStackLimit), 256},
		{"tebDeallocationStack", unsafe.Offsetof(mc.tebDeallocationStack), 264},
		{"tebFiberStorage", unsafe.Offsetof(mc.tebFiberStorage), 272},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("machineContext.%s offset = %d, want %d", tc.name, tc.got, tc.want)
		}
	}

	if got, want := unsafe.Sizeof(mc.xmm), uintptr(160); got != want {
		t.Errorf("machineContext.xmm size = %d, want %d (10 registers * 16 bytes)", got, want)
	}
}

// TestNewInitialContext_SeedsTEBBounds_Windows verifies newInitialContext
// installs the coroutine's own stack bounds into the synthetic context's
// TIB fields, since the first contextSwitch into a fresh coroutine must
// already present the right StackBase/StackLimit to the Windows runtime.
func TestNewInitialContext_SeedsTEBBounds_Windows(t *testing.T) {
	const low, high = 0x1000, 0x2000
	var self byte
	mc := newInitialContext(high, unsafe.Pointer(&self), low, high)
	if mc.tebStackBase != high {
		t.Errorf("tebStackBase = %#x, want %#x", mc.tebStackBase, uintptr(high))
	}
	if mc.tebStackLimit != low {
		t.Errorf("tebStackLimit = %#x, want %#x", mc.tebStackLimit, uintptr(low))
	}
	if mc.tebDeallocationStack != low {
		t.Errorf("tebDeallocationStack = %#x, want %#x", mc.tebDeallocationStack, uintptr(low))
	}
}
