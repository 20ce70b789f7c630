package arm64

// The translator keeps all emulated guest FP registers in double-
// precision (D-register) form; single-precision encodings are omitted
// since nothing here ever needs them (guest FPn state is float64, see
// internal/guest).

func FABS(rd, rn uint8) uint32 { return 0x1e60c000 | r5(rd) | r5(rn)<<5 }
func FADD(rd, rn, rm uint8) uint32 {
	return 0x1e602800 | r5(rd) | r5(rn)<<5 | r5(rm)<<16
}
func FCMP(rn, rm uint8) uint32 { return 0x1e602000 | r5(rn)<<5 | r5(rm)<<16 }
func FCMPZ(rn uint8) uint32    { return 0x1e602008 | r5(rn)<<5 }

// FCVTFromInt converts a signed integer in a GPR of the given width to a
// double (SCVTF); FCVTToInt converts a double to a signed integer in a GPR
// of the given width, rounding toward zero (FCVTZS).
func FCVTFromInt(width Width, rd, rn uint8) uint32 {
	return uint32(width) | 0x1e620000 | r5(rd) | r5(rn)<<5
}
func FCVTToInt(width Width, rd, rn uint8) uint32 {
	return uint32(width) | 0x1e780000 | r5(rd) | r5(rn)<<5
}

func FDIV(rd, dividend, divisor uint8) uint32 {
	return 0x1e601800 | r5(rd) | r5(dividend)<<5 | r5(divisor)<<16
}
func FRINT64X(rd, rn uint8) uint32 { return 0x1e67c000 | r5(rd) | r5(rn)<<5 }
func FRINT64Z(rd, rn uint8) uint32 { return 0x1e65c000 | r5(rd) | r5(rn)<<5 }

// FLDR/FSTR: FP load/store, register+immediate offset. scale8 selects
// between the unscaled 9-bit-offset encoding (false) and the scaled
// 12-bit/8-byte encoding (true).
func FLDR(rd, base uint8, offset int16, scale8 bool) uint32 {
	if scale8 {
		return 0xfd400000 | r5(base)<<5 | r5(rd) | (uint32(offset)&0xfff)<<10
	}
	return 0xfc400000 | r5(base)<<5 | r5(rd) | (uint32(offset)&0x1ff)<<12
}
func FSTR(rd, base uint8, offset int16, scale8 bool) uint32 {
	if scale8 {
		return 0xfd000000 | r5(base)<<5 | r5(rd) | (uint32(offset)&0xfff)<<10
	}
	return 0xfc000000 | r5(base)<<5 | r5(rd) | (uint32(offset)&0x1ff)<<12
}

// FLDRLit: PC-relative literal load of a double.
func FLDRLit(rd uint8, offset19 int32) uint32 {
	return 0x5c000000 | r5(rd) | (uint32(offset19)&0x7ffff)<<5
}

func FMOV(rd, rn uint8) uint32 { return 0x1e604000 | r5(rd) | r5(rn)<<5 }

// FMOVFromGPR/FMOVToGPR move a double-precision register's raw bits
// from/to a 64-bit GPR (element index 0 of the D-form vector move).
func FMOVFromGPR(rd, rn uint8) uint32 { return 0x9e670000 | r5(rd) | r5(rn)<<5 }
func FMOVToGPR(rd, rn uint8) uint32   { return 0x9e660000 | r5(rd) | r5(rn)<<5 }

func FMOVImm(rd uint8, imm uint8) uint32 { return 0x1e601000 | uint32(imm)<<13 | r5(rd) }

// FMOVI loads an 8-bit immediate via the vector-immediate MOVI form;
// FMOVI0 is its all-zero case. The immediate's top three bits go in the
// field at bits 16-18, taken as (imm >> 5) per the architecture manual — see DESIGN.md for a
// note on a shift-vs-comparison bug this deliberately avoids.
func FMOVI(rd uint8, imm uint8) uint32 {
	return 0x2f00e400 | r5(rd) | (uint32(imm)&31)<<5 | ((uint32(imm)>>5)&7)<<16
}
func FMOVI0(rd uint8) uint32 { return FMOVI(rd, 0) }
func FMOVI1(rd uint8) uint32 { return FMOVImm(rd, 112) } // encodes +1.0 per the 8-bit float-immediate table

func FMUL(rd, first, second uint8) uint32 {
	return 0x1e600800 | r5(rd) | r5(first)<<5 | r5(second)<<16
}
func FNEG(rd, rn uint8) uint32 { return 0x1e614000 | r5(rd) | r5(rn)<<5 }
func FSQRT(rd, rn uint8) uint32 { return 0x1e61c000 | r5(rd) | r5(rn)<<5 }
func FSUB(rd, first, second uint8) uint32 {
	return 0x1e603800 | r5(rd) | r5(first)<<5 | r5(second)<<16
}
