package translator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrel68/m68kjit/internal/guest"
)

// Every dispatch entry's needs/sets masks stay within the five CCR bits;
// nothing can declare a dependency on IPL, trace, or supervisor state
// through this mechanism.
func TestDispatchFlagMasksWithinCCR(t *testing.T) {
	for _, e := range table {
		require.Zero(t, (e.NeedsFlags|e.SetsFlags)&^guest.FlagAll,
			"%s: needs/sets masks must be a subset of {C,V,Z,N,X}", e.Name)
	}
}

// An unpopulated slot resolves to the illegal-instruction fallback, which
// sets no flags and needs the whole CCR live.
func TestDispatchFallbackIsIllegal(t *testing.T) {
	e := Lookup(0xffff)
	require.Equal(t, "ILLEGAL", e.Name)
	require.Equal(t, guest.FlagAll, e.NeedsFlags)
	require.Equal(t, guest.FlagNone, e.SetsFlags)
}

// Each probe word resolves to the row of its own instruction family:
// 0x0680 is ADDI (the ADD row only claims 0xdxxx words), and the JSR/JMP
// (An) rows each claim only their own words.
func TestDispatchResolvesEachFamily(t *testing.T) {
	require.Equal(t, "ADDI", Lookup(0x0680).Name)
	require.Equal(t, "ADD", Lookup(0xd041).Name)
	require.Equal(t, "NOP", Lookup(0x4e71).Name)
	require.Equal(t, "JSR", Lookup(0x4e92).Name)
	require.Equal(t, "JMP", Lookup(0x4ed3).Name)
}
