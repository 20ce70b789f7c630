// Package arm64 is the host instruction encoder: one pure function per
// AArch64 mnemonic, each returning a little-endian encoded uint32
// instruction word from structured operands. No function here
// allocates, touches guest state, or has any notion of a translated
// block — that all lives in package translator, which calls these as a
// library.
package arm64

import "github.com/kestrel68/m68kjit/internal/jit/backend"

// Register window this host architecture exposes to the allocator:
// general-purpose registers x0..x11 are available for guest caching, and
// d1..d7 back the FPU/extended-precision emulation (d0 is reserved as a
// scratch register for 80-bit conversions).
const (
	RegStart    backend.RealReg = 0
	RegEnd      backend.RealReg = 11
	FPURegStart backend.RealReg = 1
	FPURegEnd   backend.RealReg = 7
)

// DynamicDn and DynamicAn report whether this host architecture allows
// the LRU cache to reorder Dn/An bindings freely. Both are false for
// AArch64: the register pressure from a window of only 12 integer
// registers makes static binding cheaper than the bookkeeping dynamic
// reordering would cost.
const (
	DynamicDn = false
	DynamicAn = false
)
