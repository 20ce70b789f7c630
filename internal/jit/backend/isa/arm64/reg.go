package arm64

import "github.com/kestrel68/m68kjit/internal/jit/backend"

// AArch64 general-purpose and special register indices, matching the
// field encoding architecture manual Rd/Rn/Rm use directly (0-31).
const (
	R0 backend.RealReg = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	R16
	R17
	R18
	R19
	R20
	R21
	R22
	R23
	R24
	R25
	R26
	R27
	R28
	R29
	R30

	// ZR/SP share encoding 31; which one a given instruction means
	// depends on the instruction class, not on a distinct bit pattern.
	ZR backend.RealReg = 31
	SP backend.RealReg = 31

	LR = R30
)

// FPU/vector register indices for the double-precision FP emulation.
const (
	D0 backend.RealReg = iota
	D1
	D2
	D3
	D4
	D5
	D6
	D7
)

var regNames = [...]string{
	R0: "x0", R1: "x1", R2: "x2", R3: "x3", R4: "x4", R5: "x5",
	R6: "x6", R7: "x7", R8: "x8", R9: "x9", R10: "x10", R11: "x11",
	R12: "x12", R13: "x13", R14: "x14", R15: "x15", R16: "x16", R17: "x17",
	R18: "x18", R19: "x19", R20: "x20", R21: "x21", R22: "x22", R23: "x23",
	R24: "x24", R25: "x25", R26: "x26", R27: "x27", R28: "x28", R29: "x29",
	R30: "x30",
}

// Name returns the host assembler mnemonic for a general-purpose
// register, "zr" for register 31 (SP is not distinguished), or "?" for
// anything else.
func Name(r backend.RealReg) string {
	if int(r) < len(regNames) && regNames[r] != "" {
		return regNames[r]
	}
	if r == 31 {
		return "zr"
	}
	return "?"
}
