package arm64

// Width selects the 32-bit (W-register) or 64-bit (X-register) form of an
// instruction family; its numeric value is the bit the architecture
// reserves for this ("sf") already shifted into position, so it can be
// OR'd straight into an opcode word.
type Width uint32

const (
	W32 Width = 0x00000000
	X64 Width = 0x80000000
)

// Shift selects the shift kind applied to a register operand's Rm field.
type Shift uint8

const (
	LSL Shift = 0
	LSR Shift = 1
	ASR Shift = 2
	ROR Shift = 3
)

// Extend selects the extend kind used by register-offset loads/stores.
type Extend uint8

const (
	UXTB Extend = 0
	UXTH Extend = 1
	UXTW Extend = 2
	UXTX Extend = 3
	SXTB Extend = 4
	SXTH Extend = 5
	SXTW Extend = 6
	SXTX Extend = 7
)

func r5(r uint8) uint32 { return uint32(r) & 31 }

// ADD encodes the immediate form ADD (Rd = Rn + imm12), imm12 unshifted.
func ADD(width Width, rd, rn uint8, imm12 uint16) uint32 {
	return uint32(width) | 0x11000000 | (uint32(imm12)&0xfff)<<10 | r5(rn)<<5 | r5(rd)
}

// ADDS is ADD, flag-setting.
func ADDS(width Width, rd, rn uint8, imm12 uint16) uint32 {
	return uint32(width) | 0x31000000 | (uint32(imm12)&0xfff)<<10 | r5(rn)<<5 | r5(rd)
}

// SUB encodes the immediate form SUB (Rd = Rn - imm12).
func SUB(width Width, rd, rn uint8, imm12 uint16) uint32 {
	return uint32(width) | 0x51000000 | (uint32(imm12)&0xfff)<<10 | r5(rn)<<5 | r5(rd)
}

// SUBS is SUB, flag-setting.
func SUBS(width Width, rd, rn uint8, imm12 uint16) uint32 {
	return uint32(width) | 0x71000000 | (uint32(imm12)&0xfff)<<10 | r5(rn)<<5 | r5(rd)
}

// CMP (immediate) is SUBS against the zero register, result discarded.
func CMPImm(width Width, rn uint8, imm12 uint16) uint32 {
	return SUBS(width, uint8(ZR), rn, imm12)
}

// CMN (immediate) is ADDS against the zero register, result discarded.
func CMNImm(width Width, rn uint8, imm12 uint16) uint32 {
	return ADDS(width, uint8(ZR), rn, imm12)
}

// bitmaskImmFields packs AArch64's "N:immr:imms" logical-immediate width/
// rotation encoding: width is the run length of set bits, ror the right
// rotation applied before replication.
func bitmaskImmFields(width, ror uint8) (immr, imms uint32) {
	return uint32(ror) & 0x3f, uint32(width-1) & 0x3f
}

// AND encodes the logical-immediate AND (Rd = Rn & bitmask(width, ror)).
func AND(width Width, rd, rn uint8, bitWidth, ror uint8) uint32 {
	immr, imms := bitmaskImmFields(bitWidth, ror)
	return uint32(width) | 0x12000000 | r5(rd) | r5(rn)<<5 | imms<<10 | immr<<16
}

// ANDSImm is AND (logical immediate), flag-setting.
func ANDSImm(width Width, rd, rn uint8, bitWidth, ror uint8) uint32 {
	immr, imms := bitmaskImmFields(bitWidth, ror)
	return uint32(width) | 0x72000000 | r5(rd) | r5(rn)<<5 | imms<<10 | immr<<16
}

// BICImm is the logical-immediate form AND(rd, rn, 32-width, ror-width):
// "bit clear" reuses AND's encoding with the bitmask complemented.
func BICImm(width Width, rd, rn uint8, bitWidth, ror uint8) uint32 {
	return AND(width, rd, rn, 32-bitWidth, ror-bitWidth)
}

// EORImm encodes the logical-immediate EOR.
func EORImm(width Width, rd, rn uint8, bitWidth, ror uint8) uint32 {
	immr, imms := bitmaskImmFields(bitWidth, ror)
	return uint32(width) | 0x52000000 | r5(rd) | r5(rn)<<5 | imms<<10 | immr<<16
}

// ORRImm encodes the logical-immediate ORR.
func ORRImm(width Width, rd, rn uint8, bitWidth, ror uint8) uint32 {
	immr, imms := bitmaskImmFields(bitWidth, ror)
	return uint32(width) | 0x32000000 | r5(rd) | r5(rn)<<5 | imms<<10 | immr<<16
}

// TSTImm is ANDS (logical immediate) against the zero register.
func TSTImm(width Width, rn uint8, bitWidth, ror uint8) uint32 {
	return ANDSImm(width, uint8(ZR), rn, bitWidth, ror)
}

// BFM/SBFM/UBFM: bitfield move family and its aliases.
func BFM(width Width, rd, rn uint8, immr, imms uint8) uint32 {
	base := uint32(0x33000000)
	if width == X64 {
		base = 0xb3400000
	}
	return base | r5(rd) | r5(rn)<<5 | (uint32(immr)&0x3f)<<16 | (uint32(imms)&0x3f)<<10
}

func SBFM(width Width, rd, rn uint8, immr, imms uint8) uint32 {
	base := uint32(0x13000000)
	if width == X64 {
		base = 0x93400000
	}
	return base | r5(rd) | r5(rn)<<5 | (uint32(immr)&0x3f)<<16 | (uint32(imms)&0x3f)<<10
}

func UBFM(width Width, rd, rn uint8, immr, imms uint8) uint32 {
	base := uint32(0x53000000)
	if width == X64 {
		base = 0xd3400000
	}
	return base | r5(rd) | r5(rn)<<5 | (uint32(immr)&0x3f)<<16 | (uint32(imms)&0x3f)<<10
}

func BFI(width Width, rd, rn uint8, lsb, bitWidth uint8) uint32 {
	return BFM(width, rd, rn, (32-lsb)&31, bitWidth-1)
}

func BFXIL(width Width, rd, rn uint8, lsb, bitWidth uint8) uint32 {
	return BFM(width, rd, rn, lsb, lsb+bitWidth-1)
}

func SBFX(width Width, rd, rn uint8, lsb, bitWidth uint8) uint32 {
	return SBFM(width, rd, rn, lsb, lsb+bitWidth-1)
}

func SBFIZ(width Width, rd, rn uint8, lsb, bitWidth uint8) uint32 {
	return SBFM(width, rd, rn, (32-lsb)&31, bitWidth-1)
}

func UBFX(width Width, rd, rn uint8, lsb, bitWidth uint8) uint32 {
	return UBFM(width, rd, rn, lsb, lsb+bitWidth-1)
}

func UBFIZ(width Width, rd, rn uint8, lsb, bitWidth uint8) uint32 {
	return UBFM(width, rd, rn, (32-lsb)&31, bitWidth-1)
}

// EXTR encodes the register-extract instruction, the basis for the ROR
// (register-immediate) alias below.
func EXTR(width Width, rd, rn, rm uint8, lsb uint8) uint32 {
	base := uint32(0x13800000)
	if width == X64 {
		base = 0x93c00000
	}
	return base | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(lsb)&63)<<10
}

func ASRImm(width Width, rd, rn uint8, shift uint8) uint32 { return SBFM(width, rd, rn, shift, 31) }
func LSLImm(width Width, rd, rn uint8, shift uint8) uint32 {
	return UBFM(width, rd, rn, (32-shift)&31, 31-shift)
}
func LSRImm(width Width, rd, rn uint8, shift uint8) uint32 { return UBFM(width, rd, rn, shift, 31) }
func RORImm(width Width, rd, rn uint8, shift uint8) uint32 { return EXTR(width, rd, rn, rn, shift) }

func ExtendSXTB(width Width, rd, rn uint8) uint32 { return SBFM(width, rd, rn, 0, 7) }
func ExtendSXTH(width Width, rd, rn uint8) uint32 { return SBFM(width, rd, rn, 0, 15) }
func ExtendSXTW(rd, rn uint8) uint32              { return SBFM(X64, rd, rn, 0, 31) }
func ExtendUXTB(width Width, rd, rn uint8) uint32 { return UBFM(width, rd, rn, 0, 7) }
func ExtendUXTH(width Width, rd, rn uint8) uint32 { return UBFM(width, rd, rn, 0, 15) }

// MOV/MOVK/MOVN/MOVZ(alias MOV): wide-immediate move family. shift16 is
// the 16-bit lane (0-1 for W, 0-3 for X) val is loaded/inserted into.
func MOVZ(width Width, rd uint8, val uint16, shift16 uint8) uint32 {
	base := uint32(0x52800000)
	if width == X64 {
		base = 0xd2800000
	}
	return base | (uint32(shift16)&3)<<21 | uint32(val)<<5 | r5(rd)
}

func MOVK(width Width, rd uint8, val uint16, shift16 uint8) uint32 {
	base := uint32(0x72800000)
	if width == X64 {
		base = 0xf2800000
	}
	return base | (uint32(shift16)&3)<<21 | uint32(val)<<5 | r5(rd)
}

func MOVN(width Width, rd uint8, val uint16, shift16 uint8) uint32 {
	base := uint32(0x12800000)
	if width == X64 {
		base = 0x92800000
	}
	return base | (uint32(shift16)&3)<<21 | uint32(val)<<5 | r5(rd)
}

// MOVS is a signed convenience form: it picks MOVN for a negative 16-bit
// immediate and MOVZ otherwise.
func MOVS(width Width, rd uint8, val int16) uint32 {
	if val < 0 {
		return MOVN(width, rd, uint16(-val-1), 0)
	}
	return MOVZ(width, rd, uint16(val), 0)
}

// ADD/ADDS/SUB/SUBS (shifted register).
func ADDReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x0b000000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}

func ADDSReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x2b000000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}

func SUBReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x4b000000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}

func SUBSReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x6b000000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}

func CMNReg(width Width, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return ADDSReg(width, uint8(ZR), rn, rm, shift, amount)
}

func CMPReg(width Width, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return SUBSReg(width, uint8(ZR), rn, rm, shift, amount)
}

func NEG(width Width, rd, rm uint8, shift Shift, amount uint8) uint32 {
	return SUBReg(width, rd, uint8(ZR), rm, shift, amount)
}

func NEGS(width Width, rd, rm uint8, shift Shift, amount uint8) uint32 {
	return SUBSReg(width, rd, uint8(ZR), rm, shift, amount)
}

// ADC/ADCS/SBC/SBCS: arithmetic-with-carry family, and their NGC/NGCS
// "negate with carry" aliases.
func ADC(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x1a000000 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}
func ADCS(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x3a000000 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}
func SBC(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x5a000000 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}
func SBCS(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x7a000000 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}
func NGC(width Width, rd, rm uint8) uint32  { return SBC(width, rd, uint8(ZR), rm) }
func NGCS(width Width, rd, rm uint8) uint32 { return SBCS(width, rd, uint8(ZR), rm) }

// CSEL/CSINC/CSINV and the CSET/CSETM "no false-operand" aliases.
func CSEL(width Width, rd, rn, rm uint8, cond Cond) uint32 {
	return uint32(width) | 0x1a800000 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | uint32(cond)<<12
}
func CSINC(width Width, rd, rn, rm uint8, cond Cond) uint32 {
	return uint32(width) | 0x1a800400 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | uint32(cond)<<12
}
func CSINV(width Width, rd, rn, rm uint8, cond Cond) uint32 {
	return uint32(width) | 0x5a800000 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | uint32(cond)<<12
}
func CSETM(width Width, rd uint8, cond Cond) uint32 {
	return CSINV(width, rd, uint8(ZR), uint8(ZR), cond.Invert())
}
func CSET(width Width, rd uint8, cond Cond) uint32 {
	return CSINC(width, rd, uint8(ZR), uint8(ZR), cond.Invert())
}

// AND/ANDS/BIC/BICS/EON/EOR/ORR/ORN (shifted register), plus the MVN/
// MOV/TST aliases built from them.
func ANDReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x0a000000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}
func ANDSReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x6a000000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}
func BICReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x0a200000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}
func BICSReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x6a200000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}
func EON(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x4a200000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}
func EORReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x4a000000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}
func ORRReg(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x2a000000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}
func ORN(width Width, rd, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return uint32(width) | 0x2a200000 | uint32(shift)<<22 | r5(rd) | r5(rn)<<5 | r5(rm)<<16 | (uint32(amount)&63)<<10
}
func MVN(width Width, rd, rm uint8, shift Shift, amount uint8) uint32 {
	return ORN(width, rd, uint8(ZR), rm, shift, amount)
}
func MOVReg(width Width, rd, rm uint8) uint32 {
	return ORRReg(width, rd, uint8(ZR), rm, LSL, 0)
}
func TSTReg(width Width, rn, rm uint8, shift Shift, amount uint8) uint32 {
	return ANDSReg(width, uint8(ZR), rn, rm, shift, amount)
}

// ASR/LSL/LSR/ROR (shift by register).
func ASRReg(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x1ac02800 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}
func LSLReg(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x1ac02000 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}
func LSRReg(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x1ac02400 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}
func RORReg(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x1ac02c00 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}

// Multiply family: SMADDL/SMSUBL/SMULL/SMNEGL, their unsigned UMADDL/...
// counterparts, and the plain 32/64-bit MADD/MSUB/MUL/MNEG.
func SMADDL(rd, ra, rn, rm uint8) uint32 {
	return 0x9b200000 | r5(rd) | r5(rn)<<5 | r5(ra)<<10 | r5(rm)<<16
}
func SMSUBL(rd, ra, rn, rm uint8) uint32 {
	return 0x9b208000 | r5(rd) | r5(rn)<<5 | r5(ra)<<10 | r5(rm)<<16
}
func SMNEGL(rd, rn, rm uint8) uint32 { return SMSUBL(rd, uint8(ZR), rn, rm) }
func SMULL(rd, rn, rm uint8) uint32  { return SMADDL(rd, uint8(ZR), rn, rm) }
func UMADDL(rd, ra, rn, rm uint8) uint32 {
	return 0x9ba00000 | r5(rd) | r5(rn)<<5 | r5(ra)<<10 | r5(rm)<<16
}
func UMSUBL(rd, ra, rn, rm uint8) uint32 {
	return 0x9ba08000 | r5(rd) | r5(rn)<<5 | r5(ra)<<10 | r5(rm)<<16
}
func UMNEGL(rd, rn, rm uint8) uint32 { return UMSUBL(rd, uint8(ZR), rn, rm) }
func UMULL(rd, rn, rm uint8) uint32  { return UMADDL(rd, uint8(ZR), rn, rm) }

func MADD(width Width, rd, ra, rn, rm uint8) uint32 {
	return uint32(width) | 0x1b000000 | r5(rd) | r5(rn)<<5 | r5(ra)<<10 | r5(rm)<<16
}
func MSUB(width Width, rd, ra, rn, rm uint8) uint32 {
	return uint32(width) | 0x1b008000 | r5(rd) | r5(rn)<<5 | r5(ra)<<10 | r5(rm)<<16
}
func MNEG(width Width, rd, rn, rm uint8) uint32 { return MSUB(width, rd, uint8(ZR), rn, rm) }
func MUL(width Width, rd, rn, rm uint8) uint32  { return MADD(width, rd, uint8(ZR), rn, rm) }

// SDIV/UDIV.
func SDIV(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x1ac00c00 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}
func UDIV(width Width, rd, rn, rm uint8) uint32 {
	return uint32(width) | 0x1ac00800 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}

// CLS/CLZ/RBIT/REV/REV16/REV32: bit-counting and byte-reversal ops.
func CLS(width Width, rd, rn uint8) uint32 {
	return uint32(width) | 0x5ac01400 | r5(rd) | r5(rn)<<5
}
func CLZ(width Width, rd, rn uint8) uint32 {
	return uint32(width) | 0x5ac01000 | r5(rd) | r5(rn)<<5
}
func RBIT(width Width, rd, rn uint8) uint32 {
	return uint32(width) | 0x5ac00000 | r5(rd) | r5(rn)<<5
}

// REV reverses byte order across the full register width. The 64-bit
// encoding (0xdac00c00) is derived directly from the architecture
// manual's REV (64-bit) opcode rather than from a literal transcribed
// elsewhere — see DESIGN.md.
func REV(width Width, rd, rn uint8) uint32 {
	if width == X64 {
		return 0xdac00c00 | r5(rd) | r5(rn)<<5
	}
	return 0x5ac00800 | r5(rd) | r5(rn)<<5
}

func REV16(width Width, rd, rn uint8) uint32 {
	return uint32(width) | 0x5ac00400 | r5(rd) | r5(rn)<<5
}
func REV32(rd, rn uint8) uint32 { return 0xdac00800 | r5(rd) | r5(rn)<<5 }
