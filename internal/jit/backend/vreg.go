// Package backend holds the host-architecture-independent pieces of the
// code generator: the virtual/real register representation, the per-class
// bitmap register pool, and the reference-counted register handle that
// binds a host register to a guest role for the lifetime of its use in a
// translated block.
package backend

import "math"

// RealReg identifies a physical host register. Its numeric space is owned
// by the isa subpackage (arm64.R0, arm64.D0, ...); backend only allocates
// and tracks indices within a caller-supplied window.
type RealReg uint16

// VRegID is the serial number of one register binding within a block
// compile. The translator mints them in allocation order, so a handle's
// ID doubles as a breadcrumb for when it came to life relative to its
// neighbors when an eviction diagnostic fires.
type VRegID uint32

// VReg packs one binding's whole identity into a single word: the serial
// VRegID in the low half, the RealReg the pool bound it to in the high
// half.
type VReg uint64

const vRegIDInvalid VRegID = math.MaxUint32

// VRegInvalid is the zero-value-adjacent sentinel for "no binding".
const VRegInvalid VReg = VReg(vRegIDInvalid)

// NewVReg binds serial id to physical register r.
func NewVReg(id VRegID, r RealReg) VReg {
	return VReg(r)<<32 | VReg(id)
}

// RealReg returns the physical half of the binding.
func (v VReg) RealReg() RealReg { return RealReg(v >> 32) }

// ID returns the binding's serial number.
func (v VReg) ID() VRegID { return VRegID(v & 0xffffffff) }

// Valid reports whether v names a real binding rather than the sentinel.
func (v VReg) Valid() bool { return v.ID() != vRegIDInvalid }

// Class distinguishes the two register pools a translated block draws
// from: general-purpose integer registers and the FPU/vector registers
// that back the emulated extended-precision FP set.
type Class uint8

const (
	ClassInt Class = iota
	ClassFP
)
