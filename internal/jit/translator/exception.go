package translator

import (
	"github.com/kestrel68/m68kjit/internal/guest"
	"github.com/kestrel68/m68kjit/internal/jit/backend"
	"github.com/kestrel68/m68kjit/internal/jit/backend/isa/arm64"
)

// illegalEntry is the dispatch table's fallback row: any guest word no
// other entry claims is treated as an illegal instruction. An unsupported
// opcode sets nothing but needs the whole CCR live, since the exception
// frame captures SR as-is.
var illegalEntry = Entry{
	Name:       "ILLEGAL",
	Mask:       0x0000,
	Value:      0x0000,
	Handler:    illegalHandler,
	NeedsFlags: guest.FlagAll,
	SetsFlags:  guest.FlagNone,
}

func illegalHandler(e *Engine, _ uint16) {
	e.raiseException(guest.VectorIllegalInstruction, guest.FrameFormat0)
}

// trapHandler implements TRAP #n: vector is 32+n, one of the sixteen
// software-trap vectors reserved for TRAP #0..#15.
func trapHandler(e *Engine, word uint16) {
	vector := guest.VectorTrap0 + uint8(word&0xf)
	e.raiseException(vector, guest.FrameFormat0)
}

// raiseException terminates the current block by handing off to the
// runtime exception-entry trampoline: it flushes the folded PC so the
// trampoline sees the guest PC of the faulting instruction, loads the
// vector number (frame format in bits 12-15) and the raw cached SR into
// two argument registers, and
// branches to the function pointer cached at
// guest.OffsetExceptionTrampoline — the actual frame construction
// (BuildExceptionFrame's format-0/2/3/4 layouts, stack switch per SR.M/
// SR.S, vector fetch at VBR+vector*4) runs there at native speed, the way
// M68k_ExceptionEntry.c does, rather than being inlined into every
// compiled block.
func (e *Engine) raiseException(vector uint8, format guest.ExceptionFrameFormat) {
	e.FlushPC()

	cc := e.GetCC()
	ctx := e.GetCTX()

	argVector := e.getReg(backend.RoleTempReg)
	argSR := e.getReg(backend.RoleTempReg)
	trampoline := e.getReg(backend.RoleTempReg)

	e.emit(arm64.MOVZ(arm64.W32, uint8(argVector.Reg()), uint16(vector)|uint16(format)<<12, 0))
	e.emit(arm64.MOVReg(arm64.W32, uint8(argSR.Reg()), uint8(cc.Reg())))
	// The SR value the trampoline pushes must already carry the bit
	// toggle guest.TransformSRForFrame applies; compiled code cannot do
	// the conditional XOR inline cheaply, so it passes the raw SR and
	// the trampoline itself is responsible for calling
	// guest.TransformSRForFrame before building the frame (mirrored on
	// the Go-harness side by exception_test.go).
	e.emit(arm64.LDR(arm64.X64, arm64.IdxNone, uint8(trampoline.Reg()), uint8(ctx.Reg()), int16(guest.OffsetExceptionTrampoline/8)))
	e.emit(arm64.BLR(uint8(trampoline.Reg())))

	argVector.Release()
	argSR.Release()
	trampoline.Release()

	e.terminator = TerminatorException
	e.excVector = vector
}
