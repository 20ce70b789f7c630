package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterPoolAllocatesLowestFree(t *testing.T) {
	p := NewRegisterPool(ClassInt, 0, 11)

	a := p.Alloc()
	b := p.Alloc()
	require.Equal(t, RealReg(0), a)
	require.Equal(t, RealReg(1), b)

	p.Free(a)
	c := p.Alloc()
	require.Equal(t, RealReg(0), c, "freed lowest register should be reused before a higher one")
}

func TestRegisterPoolExhaustion(t *testing.T) {
	p := NewRegisterPool(ClassInt, 0, 2)
	for i := 0; i < 3; i++ {
		require.NotEqual(t, NoReg, p.Alloc())
	}
	require.Equal(t, NoReg, p.Alloc())
}

func TestRegisterPoolWindowOffset(t *testing.T) {
	p := NewRegisterPool(ClassFP, 1, 7)
	require.Equal(t, ClassFP, p.Class())
	first := p.Alloc()
	require.Equal(t, RealReg(1), first, "allocation should respect a non-zero window start")
	require.True(t, p.InUse(first))
	p.Free(first)
	require.False(t, p.InUse(first))
}

func TestRegisterPoolReset(t *testing.T) {
	p := NewRegisterPool(ClassInt, 0, 3)
	p.Alloc()
	p.Alloc()
	p.Reset()
	require.Equal(t, RealReg(0), p.Alloc())
}
