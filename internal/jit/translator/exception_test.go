package translator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrel68/m68kjit/internal/guest"
	"github.com/kestrel68/m68kjit/internal/jit/backend/isa/arm64"
)

// raiseException copies the cached SR into the trampoline's argument
// register untransformed: the low-bit swap TransformSRForFrame applies
// runs on the trampoline side, after the BLR, never inline in compiled
// code.
func TestRaiseExceptionCopiesRawSRWithoutTransform(t *testing.T) {
	e := newTestEngine()
	result, err := e.Compile([]uint16{0x4afc}, 0) // ILLEGAL
	require.NoError(t, err)
	require.Equal(t, TerminatorException, result.Terminator)
	require.True(t, containsWord(result.Code, arm64.MOVReg(arm64.W32, uint8(arm64.R3), uint8(arm64.R0))),
		"expected the cached SR (R0) copied verbatim into the trampoline's SR argument register (R3)")
}

// TRAP #n likewise passes SR through untransformed; only the vector
// number differs from the ILLEGAL path.
func TestRaiseExceptionTrapCopiesRawSRWithoutTransform(t *testing.T) {
	e := newTestEngine()
	result, err := e.Compile([]uint16{0x4e43}, 0) // TRAP #3
	require.NoError(t, err)
	require.Equal(t, TerminatorException, result.Terminator)
	require.True(t, containsWord(result.Code, arm64.MOVReg(arm64.W32, uint8(arm64.R3), uint8(arm64.R0))),
		"expected the cached SR (R0) copied verbatim into the trampoline's SR argument register (R3)")
}

// This is the Go-harness-side mirror raiseException's comment refers to:
// the trampoline's own getSR()/TransformSRForFrame()/BuildExceptionFrame()
// sequence, exercised directly against the raw SR value compiled code
// would have handed it.
func TestTrampolineSideAppliesSRTransformBeforeFraming(t *testing.T) {
	rawSR := uint16(0x2701) // low bits = 1: the swap applies
	frame := guest.BuildExceptionFrame(guest.FrameFormat0, guest.VectorIllegalInstruction, guest.TransformSRForFrame(rawSR), 0x1000, 0, 0)
	gotSR := uint16(frame[0])<<8 | uint16(frame[1])
	require.EqualValues(t, rawSR^3, gotSR)
	require.NotEqual(t, rawSR, gotSR, "the frame must carry the transformed SR, not the raw value")
}
