package translator

import (
	"math"

	"github.com/kestrel68/m68kjit/internal/guest"
	"github.com/kestrel68/m68kjit/internal/jit/backend"
	"github.com/kestrel68/m68kjit/internal/jit/backend/isa/arm64"
)

// registerOpcodes populates the dispatch table. No two rows match a common
// word, so the order rows are registered in does not change which row a
// word resolves to.
func registerOpcodes() {
	register(Entry{Name: "NOP", Mask: 0xffff, Value: 0x4e71, Handler: nopHandler, BaseLength: 1})
	register(Entry{Name: "RTS", Mask: 0xffff, Value: 0x4e75, Handler: rtsHandler, BaseLength: 1})
	register(Entry{Name: "TRAP", Mask: 0xfff0, Value: 0x4e40, Handler: trapHandler, BaseLength: 1})
	register(Entry{Name: "JSR.L", Mask: 0xffff, Value: 0x4eb9, Handler: jsrAbsLongHandler, BaseLength: 1, HasEA: true})
	register(Entry{Name: "JMP.L", Mask: 0xffff, Value: 0x4ef9, Handler: jmpAbsLongHandler, BaseLength: 1, HasEA: true})
	register(Entry{Name: "JSR", Mask: 0xfff8, Value: 0x4e90, Handler: jsrIndirectHandler, BaseLength: 1, HasEA: true})
	register(Entry{Name: "JMP", Mask: 0xfff8, Value: 0x4ed0, Handler: jmpIndirectHandler, BaseLength: 1, HasEA: true})
	register(Entry{Name: "MOVEQ", Mask: 0xf100, Value: 0x7000, Handler: moveqHandler, BaseLength: 1, SetsFlags: guest.FlagN | guest.FlagZ | guest.FlagV | guest.FlagC})
	register(Entry{Name: "ADDI", Mask: 0xff00, Value: 0x0600, Handler: addiHandler, BaseLength: 1, HasEA: true, SetsFlags: guest.FlagAll})
	register(Entry{Name: "SUBI", Mask: 0xff00, Value: 0x0400, Handler: subiHandler, BaseLength: 1, HasEA: true, SetsFlags: guest.FlagAll})
	register(Entry{Name: "CMPI", Mask: 0xff00, Value: 0x0c00, Handler: cmpiHandler, BaseLength: 1, HasEA: true, SetsFlags: guest.FlagC | guest.FlagV | guest.FlagZ | guest.FlagN})
	register(Entry{Name: "FABS.X", Mask: 0xffc0, Value: 0xf200, Handler: fabsXHandler, BaseLength: 2})
	register(Entry{Name: "ADD", Mask: 0xf000, Value: 0xd000, Handler: addHandler, BaseLength: 1, NeedsFlags: guest.FlagNone, SetsFlags: guest.FlagAll})
	register(Entry{Name: "SUB", Mask: 0xf000, Value: 0x9000, Handler: subHandler, BaseLength: 1, SetsFlags: guest.FlagAll})
	register(Entry{Name: "Bcc", Mask: 0xf000, Value: 0x6000, Handler: bccHandler, BaseLength: 1, NeedsFlags: guest.FlagC | guest.FlagV | guest.FlagZ | guest.FlagN})
}

func nopHandler(e *Engine, _ uint16) { e.AdvancePC(2) }

func rtsHandler(e *Engine, _ uint16) {
	// The cached PC is about to be overwritten wholesale from the guest
	// stack; any still-folded delta from earlier instructions must not be
	// flushed on top of it after the handler returns.
	e.offsetPC = 0
	a7 := e.GetAn(7)
	pc := e.getPC()
	e.emit(arm64.LDR(arm64.W32, arm64.IdxPost, uint8(pc.Reg()), uint8(a7.Reg()), 4))
	pc.Touch()
	a7.Touch()
	if addr, ok := e.popReturn(); ok {
		e.predictedReturn = addr
		e.returnPredicted = true
	}
	e.terminator = TerminatorReturn
}

// jsrAbsLongHandler implements JSR (xxx).L: pushes the address of the
// following instruction onto A7 and sets PC to the absolute long operand.
func jsrAbsLongHandler(e *Engine, _ uint16) {
	hi, _ := e.fetch()
	lo, _ := e.fetch()
	target := uint32(hi)<<16 | uint32(lo)

	// The pushed return address is the instruction after the six-byte
	// JSR, so its own length is advanced into the PC before the flush.
	e.AdvancePC(6)
	e.FlushPC()
	returnPC := e.getPC()
	a7 := e.GetAn(7)
	e.emit(arm64.STR(arm64.W32, arm64.IdxPre, uint8(returnPC.Reg()), uint8(a7.Reg()), -4))
	a7.Touch()
	e.pushReturn(uint32(e.ptr) * 2)

	e.loadImm32(returnPC, target)
	returnPC.Touch()
	e.terminator = TerminatorBranch
}

func jmpAbsLongHandler(e *Engine, _ uint16) {
	hi, _ := e.fetch()
	lo, _ := e.fetch()
	target := uint32(hi)<<16 | uint32(lo)

	e.offsetPC = 0
	pc := e.getPC()
	e.loadImm32(pc, target)
	pc.Touch()
	e.terminator = TerminatorBranch
}

// jsrIndirectHandler implements JSR (An): the return address push is the
// same as the absolute form's, but the target lives in An at run time, so
// the block terminates with an indirect branch the dispatch runtime must
// resolve by reading the guest PC.
func jsrIndirectHandler(e *Engine, word uint16) {
	an := uint8(word) & 7

	e.AdvancePC(2)
	e.FlushPC()
	pc := e.getPC()
	a7 := e.GetAn(7)
	e.emit(arm64.STR(arm64.W32, arm64.IdxPre, uint8(pc.Reg()), uint8(a7.Reg()), -4))
	a7.Touch()
	e.pushReturn(uint32(e.ptr) * 2)

	target := e.GetAn(an)
	e.emit(arm64.MOVReg(arm64.W32, uint8(pc.Reg()), uint8(target.Reg())))
	pc.Touch()
	e.terminator = TerminatorIndirect
}

func jmpIndirectHandler(e *Engine, word uint16) {
	an := uint8(word) & 7

	e.offsetPC = 0
	pc := e.getPC()
	target := e.GetAn(an)
	e.emit(arm64.MOVReg(arm64.W32, uint8(pc.Reg()), uint8(target.Reg())))
	pc.Touch()
	e.terminator = TerminatorIndirect
}

// moveqHandler implements MOVEQ #data,Dn: the 8-bit immediate is sign
// extended into all 32 bits of Dn and the usual N/Z/V=0/C=0 result flags
// are set.
func moveqHandler(e *Engine, word uint16) {
	reg := uint8(word>>9) & 7
	data := int32(int8(word & 0xff))

	d := e.GetDnNoLoad(reg)
	e.loadImm32(d, uint32(data))
	d.Touch()
	e.AdvancePC(2)
	e.setNZ00(d)
}

// addiHandler implements ADDI #imm,Dn (Dn-direct destination only; any
// other effective-address mode falls back to an illegal-instruction
// exception, matching this translator's restricted EA support).
func addiHandler(e *Engine, word uint16) {
	size := (word >> 6) & 3
	mode := uint8(word>>3) & 7
	reg := uint8(word) & 7
	if mode != EAModeDn {
		illegalHandler(e, word)
		return
	}
	imm := e.fetchImmediate(size)

	d := e.GetDn(reg)
	scratch := e.getReg(backend.RoleTempReg)
	e.loadImm32(scratch, imm)
	e.emit(arm64.ADDSReg(arm64.W32, uint8(d.Reg()), uint8(d.Reg()), uint8(scratch.Reg()), arm64.LSL, 0))
	scratch.Release()
	d.Touch()
	e.syncCCRFromHostFlags(true)
	e.AdvancePC(2 + int8(sizeWords(size)*2))
}

func subiHandler(e *Engine, word uint16) {
	size := (word >> 6) & 3
	mode := uint8(word>>3) & 7
	reg := uint8(word) & 7
	if mode != EAModeDn {
		illegalHandler(e, word)
		return
	}
	imm := e.fetchImmediate(size)

	d := e.GetDn(reg)
	scratch := e.getReg(backend.RoleTempReg)
	e.loadImm32(scratch, imm)
	e.emit(arm64.SUBSReg(arm64.W32, uint8(d.Reg()), uint8(d.Reg()), uint8(scratch.Reg()), arm64.LSL, 0))
	scratch.Release()
	d.Touch()
	e.syncCCRFromHostFlags(true)
	e.AdvancePC(2 + int8(sizeWords(size)*2))
}

// cmpiHandler implements CMPI #imm,Dn: like SUBI but discards the
// arithmetic result, keeping only the flags.
func cmpiHandler(e *Engine, word uint16) {
	size := (word >> 6) & 3
	mode := uint8(word>>3) & 7
	reg := uint8(word) & 7
	if mode != EAModeDn {
		illegalHandler(e, word)
		return
	}
	imm := e.fetchImmediate(size)

	d := e.GetDn(reg)
	scratch := e.getReg(backend.RoleTempReg)
	e.loadImm32(scratch, imm)
	discard := e.getReg(backend.RoleTempReg)
	e.emit(arm64.SUBSReg(arm64.W32, uint8(discard.Reg()), uint8(d.Reg()), uint8(scratch.Reg()), arm64.LSL, 0))
	scratch.Release()
	discard.Release()
	e.syncCCRFromHostFlags(false)
	e.AdvancePC(2 + int8(sizeWords(size)*2))
}

// addHandler/subHandler implement the register-direct Dn,Dn form of
// ADD/SUB only (source effective address restricted to Dn direct); any
// other addressing mode falls back to illegal.
func addHandler(e *Engine, word uint16) {
	dstReg := uint8(word>>9) & 7
	opmode := (word >> 6) & 7
	eaMode := uint8(word>>3) & 7
	eaReg := uint8(word) & 7
	if opmode > 2 || eaMode != EAModeDn {
		illegalHandler(e, word)
		return
	}
	dst := e.GetDn(dstReg)
	src := e.GetDn(eaReg)
	e.emit(arm64.ADDSReg(arm64.W32, uint8(dst.Reg()), uint8(dst.Reg()), uint8(src.Reg()), arm64.LSL, 0))
	dst.Touch()
	e.syncCCRFromHostFlags(true)
	e.AdvancePC(2)
}

func subHandler(e *Engine, word uint16) {
	dstReg := uint8(word>>9) & 7
	opmode := (word >> 6) & 7
	eaMode := uint8(word>>3) & 7
	eaReg := uint8(word) & 7
	if opmode > 2 || eaMode != EAModeDn {
		illegalHandler(e, word)
		return
	}
	dst := e.GetDn(dstReg)
	src := e.GetDn(eaReg)
	e.emit(arm64.SUBSReg(arm64.W32, uint8(dst.Reg()), uint8(dst.Reg()), uint8(src.Reg()), arm64.LSL, 0))
	dst.Touch()
	e.syncCCRFromHostFlags(true)
	e.AdvancePC(2)
}

// bccHandler implements the 16-condition Bcc family. Both the taken and
// fall-through guest PCs are computable at compile time (PC-relative
// branch with a sign-extended 8-bit or 16-bit displacement), so the
// block ends by selecting between the two constants at runtime based on
// the cached condition nibble and storing the result into the cached PC
// register; which successor block to compile next is left to the caller.
func bccHandler(e *Engine, word uint16) {
	cc := uint8(word>>8) & 0xf
	disp := int32(int8(word & 0xff))
	var fallthroughDelta int32 = 2
	if disp == 0 {
		hi, _ := e.fetch()
		disp = int32(int16(hi))
		fallthroughDelta = 4
	}
	// Branch displacements are relative to PC+2 (the word after the
	// opcode), not to the opcode itself.
	disp += 2

	e.FlushPC()
	pc := e.getPC()
	takenTarget := e.getReg(backend.RoleTempReg)
	notTakenTarget := e.getReg(backend.RoleTempReg)
	e.emit(arm64.MOVReg(arm64.W32, uint8(notTakenTarget.Reg()), uint8(pc.Reg())))
	e.emit(arm64.ADD(arm64.W32, uint8(notTakenTarget.Reg()), uint8(notTakenTarget.Reg()), uint16(fallthroughDelta)))
	e.emit(arm64.MOVReg(arm64.W32, uint8(takenTarget.Reg()), uint8(pc.Reg())))
	if disp >= 0 {
		e.emit(arm64.ADD(arm64.W32, uint8(takenTarget.Reg()), uint8(takenTarget.Reg()), uint16(disp)))
	} else {
		e.emit(arm64.SUB(arm64.W32, uint8(takenTarget.Reg()), uint8(takenTarget.Reg()), uint16(-disp)))
	}

	boolReg := e.conditionTrue(cc)
	e.emit(arm64.ANDSImm(arm64.W32, uint8(boolReg.Reg()), uint8(boolReg.Reg()), 1, 0))
	e.emit(arm64.CSEL(arm64.W32, uint8(pc.Reg()), uint8(takenTarget.Reg()), uint8(notTakenTarget.Reg()), arm64.NE))
	pc.Touch()

	boolReg.Release()
	takenTarget.Release()
	notTakenTarget.Release()
	e.terminator = TerminatorBranch
}

// fabsXHandler implements FABS.X: absolute value on the extended-precision
// FP register file. The dispatch mask (0xffc0) fixes every opcode-word bit
// above bit 5, so bits 5-0 (the EA mode/register subfield) are the only
// genuine per-instruction field in the first word; source and destination
// FPn both live in the extension word that follows, per the 68881
// FABS.Fx,FPn/FABS.FPm,FPn encoding (bit 14 of the extension word, R/M,
// selects an FPn-register source over the first word's effective
// address). The only non-register source this translator supports is an
// immediate 96-bit extended literal embedded directly in the instruction
// stream: it is converted once, at compile time, through guest.Load80 and
// materialized into a scratch FP register.
func fabsXHandler(e *Engine, word uint16) {
	mode := uint8(word>>3) & 7
	reg := uint8(word) & 7
	ext, _ := e.fetch()
	dstReg := uint8(ext>>7) & 7
	registerSource := ext&0x4000 == 0

	var src *backend.Handle
	switch {
	case registerSource:
		src = e.GetFPn(uint8(ext>>10) & 7)
	case mode == EAModeOther && reg == EARegImmediate:
		value := guest.Load80(e.fetchExtended80())
		src = e.getFPReg(backend.RoleTempConstant)
		e.loadImmDouble(src, value)
	default:
		illegalHandler(e, word)
		return
	}

	dst := e.GetFPnNoLoad(dstReg)
	e.emit(arm64.FABS(uint8(dst.Reg()), uint8(src.Reg())))
	dst.Touch()
	if src.Role() == backend.RoleTempConstant {
		src.Release()
	}

	e.emit(arm64.FCMPZ(uint8(dst.Reg())))
	e.syncFPSRFromHostFlags()

	if registerSource {
		e.AdvancePC(4)
	} else {
		e.AdvancePC(16)
	}
}

// syncFPSRFromHostFlags derives the guest FPSR condition byte from the
// host flags an FCMP/FCMPZ just set: the NZCV nibble with C cleared (C
// carries no 68881 meaning after an FP compare), rotated down from bits
// 31-28 into bits 3-0, then inserted at bit 24 of the cached FPSR, where
// the N/Z/I/NaN byte lives.
func (e *Engine) syncFPSRFromHostFlags() {
	fpsr := e.GetFPSR()
	tmp := e.getReg(backend.RoleTempReg)
	e.emit(arm64.GetNZCV(uint8(tmp.Reg())))
	e.emit(arm64.AND(arm64.W32, uint8(tmp.Reg()), uint8(tmp.Reg()), 31, 2)) // keep everything but bit 29 (host C)
	e.emit(arm64.RORImm(arm64.W32, uint8(tmp.Reg()), uint8(tmp.Reg()), 28))
	e.emit(arm64.BFI(arm64.W32, uint8(fpsr.Reg()), uint8(tmp.Reg()), 24, 4))
	tmp.Release()
	fpsr.Touch()
}

// fetchExtended80 consumes the six-word 96-bit extended-precision literal
// FABS.X's immediate addressing mode carries in the instruction stream: a
// 32-bit sign+exponent word followed by a 64-bit mantissa, matching
// Extended80's wire layout.
func (e *Engine) fetchExtended80() guest.Extended80 {
	expHi, _ := e.fetch()
	expLo, _ := e.fetch()
	m3, _ := e.fetch()
	m2, _ := e.fetch()
	m1, _ := e.fetch()
	m0, _ := e.fetch()
	return guest.Extended80{
		ExpWord:  uint32(expHi)<<16 | uint32(expLo),
		Mantissa: uint64(m3)<<48 | uint64(m2)<<32 | uint64(m1)<<16 | uint64(m0),
	}
}

// loadImmDouble materializes an arbitrary double-precision float into h's
// FP register: the 64-bit extension of loadImm32's MOVZ/MOVK chain,
// building the raw IEEE 754 bit pattern in a scratch GPR one 16-bit lane
// at a time, then FMOVFromGPR moves those bits into the D-register
// directly.
func (e *Engine) loadImmDouble(h *backend.Handle, f float64) {
	bits := math.Float64bits(f)
	scratch := e.getReg(backend.RoleTempReg)
	e.emit(arm64.MOVZ(arm64.X64, uint8(scratch.Reg()), uint16(bits), 0))
	for lane := uint8(1); lane < 4; lane++ {
		chunk := uint16(bits >> (uint(lane) * 16))
		if chunk != 0 {
			e.emit(arm64.MOVK(arm64.X64, uint8(scratch.Reg()), chunk, lane))
		}
	}
	e.emit(arm64.FMOVFromGPR(uint8(h.Reg()), uint8(scratch.Reg())))
	scratch.Release()
}

// loadImm32 emits the MOVZ/MOVK pair needed to materialize an arbitrary
// 32-bit constant into h's register.
func (e *Engine) loadImm32(h *backend.Handle, val uint32) {
	e.emit(arm64.MOVZ(arm64.W32, uint8(h.Reg()), uint16(val), 0))
	if val>>16 != 0 {
		e.emit(arm64.MOVK(arm64.W32, uint8(h.Reg()), uint16(val>>16), 1))
	}
}

// fetchImmediate consumes the extension word(s) an ADDI/SUBI/CMPI-style
// immediate operand needs for the given size field (0=byte,1=word,
// 2=long) and returns it zero-extended into a uint32.
func (e *Engine) fetchImmediate(size uint16) uint32 {
	switch size {
	case 0:
		w, _ := e.fetch()
		return uint32(w & 0xff)
	case 1:
		w, _ := e.fetch()
		return uint32(w)
	default:
		hi, _ := e.fetch()
		lo, _ := e.fetch()
		return uint32(hi)<<16 | uint32(lo)
	}
}

func sizeWords(size uint16) uint16 {
	if size == 2 {
		return 2
	}
	return 1
}

// setNZ00 sets the cached CCR to reflect a simple move-style result
// (N/Z from the value, V and C always cleared), without needing a host
// flag-setting instruction — used by MOVEQ.
func (e *Engine) setNZ00(d *backend.Handle) {
	cc := e.GetCC()
	clearMask := uint8(4)
	e.emit(arm64.BICImm(arm64.W32, uint8(cc.Reg()), uint8(cc.Reg()), clearMask, 0))
	n := e.getReg(backend.RoleTempReg)
	e.emit(arm64.UBFX(arm64.W32, uint8(n.Reg()), uint8(d.Reg()), 31, 1))
	e.emit(arm64.LSLImm(arm64.W32, uint8(n.Reg()), uint8(n.Reg()), guest.SRBitN))
	z := e.getReg(backend.RoleTempReg)
	e.emit(arm64.CMPImm(arm64.W32, uint8(d.Reg()), 0))
	e.emit(arm64.CSET(arm64.W32, uint8(z.Reg()), arm64.EQ))
	e.emit(arm64.LSLImm(arm64.W32, uint8(z.Reg()), uint8(z.Reg()), guest.SRBitZ))
	e.emit(arm64.ORRReg(arm64.W32, uint8(n.Reg()), uint8(n.Reg()), uint8(z.Reg()), arm64.LSL, 0))
	e.emit(arm64.ORRReg(arm64.W32, uint8(cc.Reg()), uint8(cc.Reg()), uint8(n.Reg()), arm64.LSL, 0))
	n.Release()
	z.Release()
	cc.Touch()
}

// syncCCRFromHostFlags rebuilds the low CCR bits (C,V,Z,N) from the
// host NZCV flags an ADDS/SUBS just set, permuting AArch64's N(31)/Z(30)/
// C(29)/V(28) bit order into the guest SR's C(0)/V(1)/Z(2)/N(3) order.
// withX additionally copies C into X (bit 4): arithmetic opcodes keep X a
// duplicate of C, compares leave it alone.
func (e *Engine) syncCCRFromHostFlags(withX bool) {
	cc := e.GetCC()
	nzcv := e.getReg(backend.RoleTempReg)
	e.emit(arm64.GetNZCV(uint8(nzcv.Reg())))

	bits := e.getReg(backend.RoleTempReg)
	tmp := e.getReg(backend.RoleTempReg)

	e.emit(arm64.UBFX(arm64.W32, uint8(bits.Reg()), uint8(nzcv.Reg()), 31, 1))
	e.emit(arm64.LSLImm(arm64.W32, uint8(bits.Reg()), uint8(bits.Reg()), guest.SRBitN))

	e.emit(arm64.UBFX(arm64.W32, uint8(tmp.Reg()), uint8(nzcv.Reg()), 30, 1))
	e.emit(arm64.LSLImm(arm64.W32, uint8(tmp.Reg()), uint8(tmp.Reg()), guest.SRBitZ))
	e.emit(arm64.ORRReg(arm64.W32, uint8(bits.Reg()), uint8(bits.Reg()), uint8(tmp.Reg()), arm64.LSL, 0))

	e.emit(arm64.UBFX(arm64.W32, uint8(tmp.Reg()), uint8(nzcv.Reg()), 29, 1))
	e.emit(arm64.LSLImm(arm64.W32, uint8(tmp.Reg()), uint8(tmp.Reg()), guest.SRBitC))
	e.emit(arm64.ORRReg(arm64.W32, uint8(bits.Reg()), uint8(bits.Reg()), uint8(tmp.Reg()), arm64.LSL, 0))
	if withX {
		e.emit(arm64.UBFX(arm64.W32, uint8(tmp.Reg()), uint8(nzcv.Reg()), 29, 1))
		e.emit(arm64.LSLImm(arm64.W32, uint8(tmp.Reg()), uint8(tmp.Reg()), guest.SRBitX))
		e.emit(arm64.ORRReg(arm64.W32, uint8(bits.Reg()), uint8(bits.Reg()), uint8(tmp.Reg()), arm64.LSL, 0))
	}

	e.emit(arm64.UBFX(arm64.W32, uint8(tmp.Reg()), uint8(nzcv.Reg()), 28, 1))
	e.emit(arm64.LSLImm(arm64.W32, uint8(tmp.Reg()), uint8(tmp.Reg()), guest.SRBitV))
	e.emit(arm64.ORRReg(arm64.W32, uint8(bits.Reg()), uint8(bits.Reg()), uint8(tmp.Reg()), arm64.LSL, 0))

	clearWidth := uint8(4)
	if withX {
		clearWidth = 5
	}
	e.emit(arm64.BICImm(arm64.W32, uint8(cc.Reg()), uint8(cc.Reg()), clearWidth, 0))
	e.emit(arm64.ORRReg(arm64.W32, uint8(cc.Reg()), uint8(cc.Reg()), uint8(bits.Reg()), arm64.LSL, 0))

	nzcv.Release()
	bits.Release()
	tmp.Release()
	cc.Touch()
}

// conditionTrue evaluates one of the sixteen m68k condition codes against
// the cached CCR at runtime, returning a scratch handle whose bit 0 holds
// the boolean result. It uses the classic NZVC-indexed truth table (the
// same technique most 68000 interpreters use for Scc/Bcc/DBcc): a 16-bit
// constant with one bit per possible (C,V,Z,N) nibble value, shifted right
// by the live nibble and tested at bit 0, which sidesteps needing to map
// 68k condition semantics onto AArch64's native condition codes (whose
// carry sense for subtraction is inverted relative to 68k's).
func (e *Engine) conditionTrue(cc uint8) *backend.Handle {
	table := e.getReg(backend.RoleTempReg)
	e.emit(arm64.MOVZ(arm64.W32, uint8(table.Reg()), ccTruthTable[cc&0xf], 0))

	nibble := e.getReg(backend.RoleTempReg)
	e.emit(arm64.AND(arm64.W32, uint8(nibble.Reg()), uint8(e.GetCC().Reg()), 4, 0))

	shifted := e.getReg(backend.RoleTempReg)
	e.emit(arm64.LSRReg(arm64.W32, uint8(shifted.Reg()), uint8(table.Reg()), uint8(nibble.Reg())))

	result := e.getReg(backend.RoleTempReg)
	e.emit(arm64.UBFX(arm64.W32, uint8(result.Reg()), uint8(shifted.Reg()), 0, 1))

	table.Release()
	nibble.Release()
	shifted.Release()
	return result
}

// ccTruthTable[cc] has bit i set when condition cc holds for the nibble
// value i, where i's bits are (from low to high) C, V, Z, N — the same
// order the guest SR packs them in, so the cached CCR's low nibble is
// used as the table index directly with no rearrangement.
var ccTruthTable = buildCCTruthTable()

func buildCCTruthTable() [16]uint16 {
	holds := func(cc uint8, c, v, z, n bool) bool {
		switch cc {
		case 0: // T
			return true
		case 1: // F
			return false
		case 2: // HI
			return !c && !z
		case 3: // LS
			return c || z
		case 4: // CC
			return !c
		case 5: // CS
			return c
		case 6: // NE
			return !z
		case 7: // EQ
			return z
		case 8: // VC
			return !v
		case 9: // VS
			return v
		case 10: // PL
			return !n
		case 11: // MI
			return n
		case 12: // GE
			return n == v
		case 13: // LT
			return n != v
		case 14: // GT
			return !z && n == v
		case 15: // LE
			return z || n != v
		}
		return false
	}

	var table [16]uint16
	for cc := uint8(0); cc < 16; cc++ {
		var word uint16
		for nibble := 0; nibble < 16; nibble++ {
			c := nibble&1 != 0
			v := nibble&2 != 0
			z := nibble&4 != 0
			n := nibble&8 != 0
			if holds(cc, c, v, z, n) {
				word |= 1 << uint(nibble)
			}
		}
		table[cc] = word
	}
	return table
}
