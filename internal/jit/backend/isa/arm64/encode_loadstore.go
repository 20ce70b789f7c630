package arm64

// Idx selects the addressing-mode variant of a scaled-immediate load or
// store: no indexing (the offset form), pre-indexed (writeback before
// access) or post-indexed (writeback after).
type Idx uint8

const (
	IdxNone Idx = iota
	IdxPre
	IdxPost
)

// LDRLit/LDRSWLit: PC-relative literal load, offset19 in words.
func LDRLit(width Width, rd uint8, offset19 int32) uint32 {
	base := uint32(0x18000000)
	if width == X64 {
		base = 0x58000000
	}
	return base | (uint32(offset19)&0x7ffff)<<5 | r5(rd)
}
func LDRSWLit(rd uint8, offset19 int32) uint32 {
	return 0x98000000 | (uint32(offset19)&0x7ffff)<<5 | r5(rd)
}

// Register-offset loads/stores: LDR/STR for B/H/W-or-X widths, signed
// loads LDRSB/LDRSH/LDRSW, each with an extend kind and an optional
// "LSL #log2(width)" shift flag (shiftOne selects the shifted form).
func LDRReg(width Width, ext Extend, rt, rn, rm uint8, shiftOne bool) uint32 {
	base := uint32(0xb8600800)
	if width == X64 {
		base = 0xf8600800
	}
	v := base | r5(rt) | r5(rn)<<5 | r5(rm)<<16 | uint32(ext)<<13
	if shiftOne {
		v |= 0x1000
	}
	return v
}
func STRReg(width Width, ext Extend, rt, rn, rm uint8, shiftOne bool) uint32 {
	base := uint32(0xb8200800)
	if width == X64 {
		base = 0xf8200800
	}
	v := base | r5(rt) | r5(rn)<<5 | r5(rm)<<16 | uint32(ext)<<13
	if shiftOne {
		v |= 0x1000
	}
	return v
}
func LDRBReg(ext Extend, rt, rn, rm uint8) uint32 {
	return 0x38600800 | r5(rt) | r5(rn)<<5 | r5(rm)<<16 | uint32(ext)<<13
}
func STRBReg(ext Extend, rt, rn, rm uint8) uint32 {
	return 0x38200800 | r5(rt) | r5(rn)<<5 | r5(rm)<<16 | uint32(ext)<<13
}
func LDRSBReg(width Width, ext Extend, rt, rn, rm uint8) uint32 {
	base := uint32(0x38e00800)
	if width == X64 {
		base = 0x38a00800
	}
	return base | r5(rt) | r5(rn)<<5 | r5(rm)<<16 | uint32(ext)<<13
}
func LDRHReg(ext Extend, rt, rn, rm uint8, shiftOne bool) uint32 {
	v := uint32(0x78600800) | r5(rt) | r5(rn)<<5 | r5(rm)<<16 | uint32(ext)<<13
	if shiftOne {
		v |= 0x1000
	}
	return v
}
func STRHReg(ext Extend, rt, rn, rm uint8, shiftOne bool) uint32 {
	v := uint32(0x78200800) | r5(rt) | r5(rn)<<5 | r5(rm)<<16 | uint32(ext)<<13
	if shiftOne {
		v |= 0x1000
	}
	return v
}
func LDRSHReg(width Width, ext Extend, rt, rn, rm uint8, shiftOne bool) uint32 {
	base := uint32(0x78e00800)
	if width == X64 {
		base = 0x78a00800
	}
	v := base | r5(rt) | r5(rn)<<5 | r5(rm)<<16 | uint32(ext)<<13
	if shiftOne {
		v |= 0x1000
	}
	return v
}
func LDRSWReg(ext Extend, rt, rn, rm uint8, shiftOne bool) uint32 {
	v := uint32(0xb8a00800) | r5(rt) | r5(rn)<<5 | r5(rm)<<16 | uint32(ext)<<13
	if shiftOne {
		v |= 0x1000
	}
	return v
}

// Scaled-immediate and pre/post-indexed loads/stores. imm is in bytes for
// the indexed (unscaled-field) forms and pre-divided by the access size
// for the plain scaled-offset form before packing the 12-bit scaled field.
func LDR(width Width, idx Idx, rt, rn uint8, imm int16) uint32 {
	var scaled, pre, post uint32
	if width == X64 {
		scaled, pre, post = 0xf9400000, 0xf8400c00, 0xf8400400
	} else {
		scaled, pre, post = 0xb9400000, 0xb8400c00, 0xb8400400
	}
	switch idx {
	case IdxPre:
		return pre | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	case IdxPost:
		return post | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	default:
		return scaled | r5(rt) | r5(rn)<<5 | (uint32(imm)&0xfff)<<10
	}
}

func STR(width Width, idx Idx, rt, rn uint8, imm int16) uint32 {
	var scaled, pre, post uint32
	if width == X64 {
		scaled, pre, post = 0xf9000000, 0xf8000c00, 0xf8000400
	} else {
		scaled, pre, post = 0xb9000000, 0xb8000c00, 0xb8000400
	}
	switch idx {
	case IdxPre:
		return pre | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	case IdxPost:
		return post | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	default:
		return scaled | r5(rt) | r5(rn)<<5 | (uint32(imm)&0xfff)<<10
	}
}

func LDRB(idx Idx, rt, rn uint8, imm int16) uint32 {
	switch idx {
	case IdxPre:
		return 0x38400c00 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	case IdxPost:
		return 0x38400400 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	default:
		return 0x39400000 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0xfff)<<10
	}
}

func STRB(idx Idx, rt, rn uint8, imm int16) uint32 {
	switch idx {
	case IdxPre:
		return 0x38000c00 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	case IdxPost:
		return 0x38000400 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	default:
		return 0x39000000 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0xfff)<<10
	}
}

func LDRH(idx Idx, rt, rn uint8, imm int16) uint32 {
	switch idx {
	case IdxPre:
		return 0x78400c00 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	case IdxPost:
		return 0x78400400 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	default:
		return 0x79400000 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0xfff)<<10
	}
}

func STRH(idx Idx, rt, rn uint8, imm int16) uint32 {
	switch idx {
	case IdxPre:
		return 0x78000c00 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	case IdxPost:
		return 0x78000400 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	default:
		return 0x79000000 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0xfff)<<10
	}
}

func LDRSW(idx Idx, rt, rn uint8, imm int16) uint32 {
	switch idx {
	case IdxPre:
		return 0xb8800c00 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	case IdxPost:
		return 0xb8800400 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0x1ff)<<12
	default:
		return 0xb9800000 | r5(rt) | r5(rn)<<5 | (uint32(imm)&0xfff)<<10
	}
}

// LDP/STP: load/store register pair, imm pre-divided by the access size.
func LDP(width Width, idx Idx, rt1, rt2, rn uint8, imm int16) uint32 {
	switch idx {
	case IdxPre:
		return uint32(width) | 0x29c00000 | r5(rt1) | r5(rt2)<<10 | r5(rn)<<5 | (uint32(imm)&0x7f)<<15
	case IdxPost:
		return uint32(width) | 0x28c00000 | r5(rt1) | r5(rt2)<<10 | r5(rn)<<5 | (uint32(imm)&0x7f)<<15
	default:
		return uint32(width) | 0x29400000 | r5(rt1) | r5(rt2)<<10 | r5(rn)<<5 | (uint32(imm)&0x7f)<<15
	}
}
func STP(width Width, idx Idx, rt1, rt2, rn uint8, imm int16) uint32 {
	switch idx {
	case IdxPre:
		return uint32(width) | 0x29800000 | r5(rt1) | r5(rt2)<<10 | r5(rn)<<5 | (uint32(imm)&0x7f)<<15
	case IdxPost:
		return uint32(width) | 0x28800000 | r5(rt1) | r5(rt2)<<10 | r5(rn)<<5 | (uint32(imm)&0x7f)<<15
	default:
		return uint32(width) | 0x29000000 | r5(rt1) | r5(rt2)<<10 | r5(rn)<<5 | (uint32(imm)&0x7f)<<15
	}
}

// LDXR/STXR and the byte/halfword forms: exclusive-access loads/stores.
func LDXR(width Width, rt, rn uint8) uint32 {
	base := uint32(0x885f7c00)
	if width == X64 {
		base = 0xc85f7c00
	}
	return base | r5(rt) | r5(rn)<<5
}
func LDXRB(rt, rn uint8) uint32 { return 0x085f7c00 | r5(rt) | r5(rn)<<5 }
func LDXRH(rt, rn uint8) uint32 { return 0x485f7c00 | r5(rt) | r5(rn)<<5 }
func STXR(width Width, rs, rt, rn uint8) uint32 {
	base := uint32(0x88007c00)
	if width == X64 {
		base = 0xc8007c00
	}
	return base | r5(rt) | r5(rn)<<5 | r5(rs)<<16
}
func STXRB(rs, rt, rn uint8) uint32 { return 0x08007c00 | r5(rt) | r5(rn)<<5 | r5(rs)<<16 }
func STXRH(rs, rt, rn uint8) uint32 { return 0x48007c00 | r5(rt) | r5(rn)<<5 | r5(rs)<<16 }

// LDUR/STUR and friends: unscaled-immediate loads/stores (9-bit signed
// byte offset, no alignment requirement).
func LDUR(width Width, rt, rn uint8, offset9 int16) uint32 {
	base := uint32(0xb8400000)
	if width == X64 {
		base = 0xf8400000
	}
	return base | r5(rt) | r5(rn)<<5 | (uint32(offset9)&0x1ff)<<12
}
func LDURB(rt, rn uint8, offset9 int16) uint32 {
	return 0x38400000 | r5(rt) | r5(rn)<<5 | (uint32(offset9)&0x1ff)<<12
}
func LDURSB(width Width, rt, rn uint8, offset9 int16) uint32 {
	base := uint32(0x38c00000)
	if width == X64 {
		base = 0x38800000
	}
	return base | r5(rt) | r5(rn)<<5 | (uint32(offset9)&0x1ff)<<12
}
func LDURH(rt, rn uint8, offset9 int16) uint32 {
	return 0x78400000 | r5(rt) | r5(rn)<<5 | (uint32(offset9)&0x1ff)<<12
}
func LDURSH(width Width, rt, rn uint8, offset9 int16) uint32 {
	base := uint32(0x78c00000)
	if width == X64 {
		base = 0x78800000
	}
	return base | r5(rt) | r5(rn)<<5 | (uint32(offset9)&0x1ff)<<12
}
func LDURSW(rt, rn uint8, offset9 int16) uint32 {
	return 0xb8800000 | r5(rt) | r5(rn)<<5 | (uint32(offset9)&0x1ff)<<12
}
func STUR(width Width, rt, rn uint8, offset9 int16) uint32 {
	base := uint32(0xb8000000)
	if width == X64 {
		base = 0xf8000000
	}
	return base | r5(rt) | r5(rn)<<5 | (uint32(offset9)&0x1ff)<<12
}
func STURB(rt, rn uint8, offset9 int16) uint32 {
	return 0x38000000 | r5(rt) | r5(rn)<<5 | (uint32(offset9)&0x1ff)<<12
}
func STURH(rt, rn uint8, offset9 int16) uint32 {
	return 0x78000000 | r5(rt) | r5(rn)<<5 | (uint32(offset9)&0x1ff)<<12
}
