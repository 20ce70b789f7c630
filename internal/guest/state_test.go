package guest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// Store80/Load80 must round-trip: load(store(x)) == x for every class of
// value the 96-bit extended format distinguishes.
func TestStore80LoadRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		f    float64
	}{
		{"positive one", 1.0},
		{"negative one", -1.0},
		{"positive zero", 0.0},
		{"negative zero", math.Copysign(0, -1)},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"small normal", 1.5},
		{"negative normal", -1234.5},
		{"large normal", 1e300},
		{"small magnitude normal", 1e-300},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Load80(Store80(c.f))
			if math.Signbit(c.f) {
				require.True(t, math.Signbit(got), "sign lost in round trip for %v", c.f)
			} else {
				require.False(t, math.Signbit(got), "sign gained in round trip for %v", c.f)
			}
			require.Equal(t, c.f, got)
		})
	}
}

// NaN can't be compared with ==, so it gets its own round-trip check: the
// result must still be NaN after the trip through extended form.
func TestStore80LoadRoundTripNaN(t *testing.T) {
	got := Load80(Store80(math.NaN()))
	require.True(t, math.IsNaN(got))
}

// Infinity's stored bit pattern is pinned literally, not just via the
// round trip (which Load80's masking would let a missing integer bit
// slip through): exponent word 0x7fff with the sign on top, and a
// mantissa that is zero except the explicit integer bit.
func TestStore80InfinityBitPattern(t *testing.T) {
	pos := Store80(math.Inf(1))
	require.Equal(t, uint32(0x7fff), pos.ExpWord)
	require.Equal(t, uint64(0x8000000000000000), pos.Mantissa)

	neg := Store80(math.Inf(-1))
	require.Equal(t, uint32(0xffff), neg.ExpWord)
	require.Equal(t, uint64(0x8000000000000000), neg.Mantissa)
}

// Store80(1.0) must not alias Store80(2.0)'s encoding: this is the exact
// failure mode of placing the rescaled exponent in the wrong half of
// ExpWord (bits 16-31 instead of the low 16 bits Load80 reads).
func TestStore80DistinguishesAdjacentExponents(t *testing.T) {
	one := Store80(1.0)
	two := Store80(2.0)
	require.NotEqual(t, one.ExpWord, two.ExpWord)
	require.Equal(t, 1.0, Load80(one))
	require.Equal(t, 2.0, Load80(two))
}

// Store80 of a negative normal value must carry its sign in the field
// Load80 actually reads (bit 15 of the low 16 bits of ExpWord).
func TestStore80NegativeNormalSignBit(t *testing.T) {
	v := Store80(-1.0)
	require.NotZero(t, uint16(v.ExpWord)&0x8000, "sign bit missing from low 16 bits of ExpWord")
}

func TestBuildExceptionFrameFormat0(t *testing.T) {
	frame := BuildExceptionFrame(FrameFormat0, VectorIllegalInstruction, 0x2700, 0x00001000, 0, 0)
	require.Len(t, frame, 8)
	require.Equal(t, []byte{0x27, 0x00}, frame[0:2])
	require.Equal(t, []byte{0x00, 0x00, 0x10, 0x00}, frame[2:6])
	typeAndFormat := uint16(frame[6])<<8 | uint16(frame[7])
	require.EqualValues(t, VectorIllegalInstruction, typeAndFormat&0x0fff)
	require.EqualValues(t, FrameFormat0, typeAndFormat>>12)
}

func TestBuildExceptionFrameFormat2CarriesEA(t *testing.T) {
	frame := BuildExceptionFrame(FrameFormat2, VectorTrap0, 0x2000, 0x1234, 0xdeadbeef, 0)
	require.Len(t, frame, 12)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, frame[0:4])
}

func TestBuildExceptionFrameFormat4CarriesFaultThenEA(t *testing.T) {
	frame := BuildExceptionFrame(FrameFormat4, VectorTrap0, 0x2000, 0x1234, 0xcafebabe, 0xfeedface)
	require.Len(t, frame, 16)
	require.Equal(t, []byte{0xfe, 0xed, 0xfa, 0xce}, frame[0:4])
	require.Equal(t, []byte{0xca, 0xfe, 0xba, 0xbe}, frame[4:8])
}

func TestTransformSRForFrameSwapsLowBitsWhenOneOrTwo(t *testing.T) {
	require.EqualValues(t, 0x2700|2, TransformSRForFrame(0x2700|1))
	require.EqualValues(t, 0x2700|1, TransformSRForFrame(0x2700|2))
}

func TestTransformSRForFrameLeavesOtherLowBitsAlone(t *testing.T) {
	require.EqualValues(t, 0x2700, TransformSRForFrame(0x2700))
	require.EqualValues(t, 0x2700|3, TransformSRForFrame(0x2700|3))
}
