package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleRetainIncrementsRefcount(t *testing.T) {
	pool := NewRegisterPool(ClassInt, 0, 3)
	h := NewHandle(pool, RoleTempReg, 0)
	require.NotNil(t, h)
	require.Equal(t, 1, h.RefCount())

	h2 := h.Retain()
	require.Equal(t, 2, h.RefCount())
	require.Equal(t, h.Reg(), h2.Reg())
	require.Equal(t, h.VReg(), h2.VReg(), "a retained copy shares the whole binding identity")

	h2.Release()
	require.Equal(t, 1, h.RefCount())
	require.True(t, pool.InUse(h.Reg()), "register must stay allocated while a reference remains")

	h.Release()
	require.False(t, pool.InUse(h.Reg()), "last release must free the register")
}

func TestHandleCarriesBindingSerial(t *testing.T) {
	pool := NewRegisterPool(ClassInt, 2, 5)
	a := NewHandle(pool, RoleTempReg, 7)
	b := NewHandle(pool, RoleM68KReg, 8)
	require.EqualValues(t, 7, a.VReg().ID())
	require.EqualValues(t, 8, b.VReg().ID())
	require.Equal(t, a.Reg(), a.VReg().RealReg(), "Reg must read through the packed binding")
	require.True(t, a.VReg().Valid())
	require.False(t, VRegInvalid.Valid())
}

func TestHandleWritebackRunsOnlyWhenDirtyAndOnFinalRelease(t *testing.T) {
	pool := NewRegisterPool(ClassInt, 0, 3)
	h := NewHandle(pool, RoleM68KReg, 0)
	calls := 0
	h.SetWriteback(func(*Handle) { calls++ })

	h2 := h.Retain()
	h.Touch()
	h2.Release()
	require.Equal(t, 0, calls, "writeback must not run while other references remain")

	h.Release()
	require.Equal(t, 1, calls, "writeback must run exactly once when the dirty handle's last reference drops")
}

func TestHandleCleanReleaseSkipsWriteback(t *testing.T) {
	pool := NewRegisterPool(ClassInt, 0, 3)
	h := NewHandle(pool, RoleM68KReg, 0)
	calls := 0
	h.SetWriteback(func(*Handle) { calls++ })
	h.Release()
	require.Equal(t, 0, calls)
}

func TestHandleTouchIdempotent(t *testing.T) {
	pool := NewRegisterPool(ClassInt, 0, 3)
	h := NewHandle(pool, RoleM68KReg, 0)
	require.False(t, h.Dirty())
	h.Touch()
	require.True(t, h.Dirty())
	h.Touch()
	h.Touch()
	require.True(t, h.Dirty(), "repeated Touch must read back the same dirty state")
	h.ClearDirty()
	require.False(t, h.Dirty())
}

func TestNewHandleExhaustion(t *testing.T) {
	pool := NewRegisterPool(ClassInt, 0, 0)
	first := NewHandle(pool, RoleTempReg, 0)
	require.NotNil(t, first)
	require.Nil(t, NewHandle(pool, RoleTempReg, 1))
}
