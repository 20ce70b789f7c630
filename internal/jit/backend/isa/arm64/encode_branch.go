package arm64

// B encodes an unconditional branch with a 26-bit word-aligned relative
// offset (in instructions, not bytes).
func B(offset int32) uint32 { return 0x14000000 | uint32(offset)&0x3ffffff }

// BL is B with the link-register variant (function call).
func BL(offset int32) uint32 { return 0x94000000 | uint32(offset)&0x3ffffff }

// BCond encodes a conditional branch with a 19-bit word-aligned offset.
func BCond(cond Cond, offset int32) uint32 {
	return 0x54000000 | uint32(cond)&15 | (uint32(offset)&0x7ffff)<<5
}

// BR/BLR: branch (with link) to register.
func BR(rn uint8) uint32  { return 0xd61f0000 | r5(rn)<<5 }
func BLR(rn uint8) uint32 { return 0xd63f0000 | r5(rn)<<5 }

// RET returns via rn (LR if unspecified, as RETDefault does).
func RET(rn uint8) uint32 { return 0xd65f0000 | r5(rn)<<5 }

func RETDefault() uint32 { return RET(uint8(LR)) }

// CBZ/CBNZ: compare-and-branch on zero/nonzero.
func CBZ(width Width, rt uint8, offset19 int32) uint32 {
	return uint32(width) | 0x34000000 | (uint32(offset19)&0x7ffff)<<5 | r5(rt)
}
func CBNZ(width Width, rt uint8, offset19 int32) uint32 {
	return uint32(width) | 0x35000000 | (uint32(offset19)&0x7ffff)<<5 | r5(rt)
}

// TBZ/TBNZ: test single bit and branch.
func TBZ(rt uint8, bit uint8, offset14 int32) uint32 {
	base := uint32(0x36000000)
	if bit&32 != 0 {
		base = 0xb6000000
	}
	return base | (uint32(bit)&31)<<19 | (uint32(offset14)&0x3fff)<<5 | r5(rt)
}
func TBNZ(rt uint8, bit uint8, offset14 int32) uint32 {
	base := uint32(0x37000000)
	if bit&32 != 0 {
		base = 0xb7000000
	}
	return base | (uint32(bit)&31)<<19 | (uint32(offset14)&0x3fff)<<5 | r5(rt)
}

// System register op0/op1/CRn/CRm/op2 fields used by MRS/MSR, packaged so
// the two TPIDR* register reads in the guest-state accessors and the
// NZCV accessors don't need to spell the five-field encoding out by hand.
type SysReg struct {
	Op0, Op1, CRn, CRm, Op2 uint8
}

var (
	SysRegNZCV     = SysReg{3, 3, 4, 2, 0}
	SysRegTPIDRRO  = SysReg{3, 3, 13, 0, 3} // TPIDRRO_EL0: guest context pointer
	SysRegTPIDR    = SysReg{3, 3, 13, 0, 2} // TPIDR_EL0: guest SR shadow
	SysRegFPCR     = SysReg{3, 3, 4, 4, 0}
	SysRegFPSR     = SysReg{3, 3, 4, 4, 1}
)

func MRS(rt uint8, sr SysReg) uint32 {
	v := uint32(0xd5300000) | r5(rt)
	if sr.Op0 == 3 {
		v |= 0x80000
	}
	return v | (uint32(sr.Op1)&7)<<16 | (uint32(sr.CRn)&15)<<12 | (uint32(sr.CRm)&15)<<8 | (uint32(sr.Op2)&7)<<5
}

func MSR(rt uint8, sr SysReg) uint32 {
	v := uint32(0xd5100000) | r5(rt)
	if sr.Op0 == 3 {
		v |= 0x80000
	}
	return v | (uint32(sr.Op1)&7)<<16 | (uint32(sr.CRn)&15)<<12 | (uint32(sr.CRm)&15)<<8 | (uint32(sr.Op2)&7)<<5
}

func BRK(imm16 uint16) uint32  { return 0xd4200000 | uint32(imm16)<<5 }
func HLT(imm16 uint16) uint32  { return 0xd4400000 | uint32(imm16)<<5 }
func UDF(imm16 uint16) uint32  { return HLT(imm16) }
func HINT(h uint8) uint32      { return 0xd503201f | (uint32(h)&0x7f)<<5 }
func GetNZCV(rt uint8) uint32  { return MRS(rt, SysRegNZCV) }
func SetNZCV(rt uint8) uint32  { return MSR(rt, SysRegNZCV) }
func CFINV() uint32            { return 0xd500401f }

// ADR/ADRP: PC-relative address formation, imm21 split into a 2-bit low
// field and a 19-bit high field exactly as the architecture packs it.
func ADR(rd uint8, imm21 int32) uint32 {
	u := uint32(imm21)
	return 0x10000000 | r5(rd) | (u&3)<<29 | ((u>>2)&0x7ffff)<<5
}
func ADRP(rd uint8, imm21 int32) uint32 {
	u := uint32(imm21)
	return 0x90000000 | r5(rd) | (u&3)<<29 | ((u>>2)&0x7ffff)<<5
}
