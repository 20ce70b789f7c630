package arm64

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Bit patterns below are cross-checked against the AArch64 architecture
// manual's opcode encodings.

func TestEncodeDataProcessingImmediate(t *testing.T) {
	cases := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"ADD.W x0,x1,#1", ADD(W32, 0, 1, 1), 0x11000420},
		{"SUB.X x2,x3,#5", SUB(X64, 2, 3, 5), 0xd1001462},
		{"CMP.W x1,#0", CMPImm(W32, 1, 0), 0x7100003f},
		{"MOVZ.W x0,#0x1234", MOVZ(W32, 0, 0x1234, 0), 0x52824680},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, c.got, "%s: got %#x want %#x", c.name, c.got, c.want)
		})
	}
}

func TestEncodeBranches(t *testing.T) {
	require.Equal(t, uint32(0x14000005), B(5))
	require.Equal(t, uint32(0x94000005), BL(5))
	require.Equal(t, uint32(0x54000020|uint32(EQ)), BCond(EQ, 1))
	require.Equal(t, uint32(0xd65f03c0), RETDefault())
}

func TestEncodeRegisterALU(t *testing.T) {
	require.Equal(t, uint32(0x8b030041), ADDReg(X64, 1, 2, 3, LSL, 0))
	require.Equal(t, uint32(0x1a9f17e0), CSET(W32, 0, EQ))
	require.Equal(t, uint32(0x9b037c20), MUL(X64, 0, 1, 3))
	require.Equal(t, uint32(0x9ac00842), UDIV(X64, 2, 2, 0))
}

func TestEncodeBitfieldAliases(t *testing.T) {
	// LSL #4 on w0<-w1 is UBFM with immr=(32-4)&31=28, imms=31-4=27.
	want := UBFM(W32, 0, 1, 28, 27)
	require.Equal(t, want, LSLImm(W32, 0, 1, 4))
}

func TestEncodeREV64MatchesArchitectureManual(t *testing.T) {
	got := REV(X64, 0, 1)
	require.Equal(t, uint32(0xdac00c20), got)
	require.NotEqual(t, uint32(0x0dac00c0)|1<<5, got, "64-bit REV opcode must be 0xdac00c00, not the truncated 0x0dac00c0")
}

func TestEncodeLoadStoreScaledImmediate(t *testing.T) {
	// LDR x0, [x1, #8] -> imm12 = 8/8 = 1
	require.Equal(t, uint32(0xf9400420), LDR(X64, IdxNone, 0, 1, 1))
	require.Equal(t, uint32(0xb9400420), LDR(W32, IdxNone, 0, 1, 1))
}

func TestEncodeFPMOVIMatchesShiftNotComparison(t *testing.T) {
	// imm=10: correct shift (10>>5)=0 leaves bit 16 clear; a boolean
	// "(imm > 5)" comparison would wrongly set it to 1 instead.
	got := FMOVI(0, 10)
	require.Equal(t, uint32(0x2f00e400|(10<<5)), got)
	require.Equal(t, uint32(0), got&(7<<16), "bit 16 must come from imm>>5, not imm>5")
}

func TestEncodeFPArithmetic(t *testing.T) {
	require.Equal(t, uint32(0x1e602820), FADD(0, 1, 0))
	require.Equal(t, uint32(0x1e61c020), FSQRT(0, 1))
	require.Equal(t, uint32(0x1e614020), FNEG(0, 1))
}
