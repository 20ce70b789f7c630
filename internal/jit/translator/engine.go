// Package translator drives decode, dispatch, code emission, LRU
// register-cache maintenance and PC folding over a guest instruction
// stream, producing a contiguous host instruction stream for one
// translated block.
package translator

import (
	"encoding/binary"
	"fmt"
	"log"
	"unsafe"

	"github.com/kestrel68/m68kjit/internal/guest"
	"github.com/kestrel68/m68kjit/internal/jit/backend"
	"github.com/kestrel68/m68kjit/internal/jit/backend/isa/arm64"
)

// CacheMaintainer abstracts the two host cache-maintenance primitives a
// freshly emitted block needs before it is safe to execute: flushing the
// data cache for the bytes just written, and invalidating the instruction
// cache so the core doesn't execute stale decoded instructions from the
// same physical address.
type CacheMaintainer interface {
	CleanDataCache(addr uintptr, length uintptr)
	InvalidateInstructionCache(addr uintptr, length uintptr)
}

// CodeAllocator abstracts the executable-memory arena a compiled block's
// host instructions are written into.
type CodeAllocator interface {
	Alloc(size, align uintptr) ([]byte, error)
	Free(buf []byte)
}

// Config selects the translator's per-host-architecture behavior and
// wires in its collaborators.
type Config struct {
	DynamicDn bool
	DynamicAn bool
	Logger    *log.Logger
	Cache     CacheMaintainer
	Allocator CodeAllocator
}

// DefaultConfig returns the AArch64 configuration: DynamicDn/DynamicAn
// false, diagnostics through the standard logger.
func DefaultConfig() Config {
	return Config{
		DynamicDn: arm64.DynamicDn,
		DynamicAn: arm64.DynamicAn,
		Logger:    log.Default(),
	}
}

// Terminator classifies how a compiled block ended, for the caller (the
// dispatch loop linking blocks together, or a debugger) to decide what
// happens next.
type Terminator uint8

const (
	TerminatorNone     Terminator = iota // fell through the end of the translation window
	TerminatorBranch                     // direct branch, target known at compile time
	TerminatorIndirect                   // branch through a register, target known only at run time
	TerminatorReturn
	TerminatorException
)

// CompileResult is everything Compile hands back about one translated
// block.
type CompileResult struct {
	Code          []byte
	MinGuestAddr  uint32
	MaxGuestAddr  uint32
	WordsConsumed int
	Terminator    Terminator
	ExceptionVec  uint8 // valid only when Terminator == TerminatorException

	// PredictedReturn is the guest address (relative to the window base of
	// the block that pushed it) the return stack expects an RTS-terminated
	// block to resume at; valid only when ReturnPredicted is set.
	PredictedReturn uint32
	ReturnPredicted bool
}

// Engine is the Go counterpart of CodeGenerator<arch>: it owns the
// register pools, the guest-register LRU cache, PC folding state and the
// append-only host instruction stream for one block compile.
type Engine struct {
	cfg Config

	guestCode []uint16
	ptr       int
	min, max  uint32
	count     int

	offsetPC int32

	stream []uint32

	regPool *backend.RegisterPool
	fpPool  *backend.RegisterPool

	d    [8]*backend.Handle
	a    [8]*backend.Handle
	pc   *backend.Handle
	cc   *backend.Handle
	ctx  *backend.Handle
	fpcr *backend.Handle
	fpsr *backend.Handle
	fp   [8]*backend.Handle
	lru  []*backend.Handle

	// retStack records the guest return address each translated JSR
	// pushes, so a later RTS-terminated block can hand the dispatch
	// runtime a speculative resume target without waiting for the guest
	// stack load. It deliberately survives reset: a JSR and its matching
	// RTS are never in the same block (both terminate one).
	retStack        []uint32
	predictedReturn uint32
	returnPredicted bool

	// nextVReg is the serial number stamped on the next handle minted in
	// this block, so each binding's VReg records its allocation order.
	nextVReg backend.VRegID

	terminator Terminator
	excVector  uint8
}

// retStackDepth bounds the speculation stack; on overflow the oldest
// entry is dropped, mispredicting the outermost call rather than growing
// without bound.
const retStackDepth = 16

func (e *Engine) pushReturn(addr uint32) {
	if len(e.retStack) == retStackDepth {
		copy(e.retStack, e.retStack[1:])
		e.retStack = e.retStack[:retStackDepth-1]
	}
	e.retStack = append(e.retStack, addr)
}

func (e *Engine) popReturn() (uint32, bool) {
	if len(e.retStack) == 0 {
		return 0, false
	}
	addr := e.retStack[len(e.retStack)-1]
	e.retStack = e.retStack[:len(e.retStack)-1]
	return addr, true
}

// NewEngine constructs a translator ready to compile one block at a time.
// Register pools are reset between blocks via Reset so a stale handle
// from a prior compile can never leak a host register into the next one.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:     cfg,
		regPool: backend.NewRegisterPool(backend.ClassInt, arm64.RegStart, arm64.RegEnd),
		fpPool:  backend.NewRegisterPool(backend.ClassFP, arm64.FPURegStart, arm64.FPURegEnd),
	}
}

func (e *Engine) emit(word uint32) { e.stream = append(e.stream, word) }

// reset clears all per-block state, returning every handle's register to
// its pool.
func (e *Engine) reset() {
	for i := range e.d {
		e.d[i] = nil
	}
	for i := range e.a {
		e.a[i] = nil
	}
	for i := range e.fp {
		e.fp[i] = nil
	}
	e.pc, e.cc, e.ctx, e.fpcr, e.fpsr = nil, nil, nil, nil, nil
	e.lru = e.lru[:0]
	e.stream = nil
	e.offsetPC = 0
	e.terminator = TerminatorNone
	e.excVector = 0
	e.predictedReturn = 0
	e.returnPredicted = false
	e.nextVReg = 0
	e.regPool.Reset()
	e.fpPool.Reset()
}

// mintVReg hands out this block's next binding serial.
func (e *Engine) mintVReg() backend.VRegID {
	id := e.nextVReg
	e.nextVReg++
	return id
}

// getReg allocates a host register from the integer pool, evicting the
// least-recently-used guest-register binding on exhaustion exactly as
// GetReg<INT>'s retry loop does around LRU_DeallocLast.
func (e *Engine) getReg(role backend.Role) *backend.Handle {
	h := backend.NewHandle(e.regPool, role, e.mintVReg())
	for h == nil {
		if !e.lruDeallocLast() {
			panic("translator: integer register pool exhausted and LRU is empty")
		}
		h = backend.NewHandle(e.regPool, role, e.mintVReg())
	}
	return h
}

func (e *Engine) getFPReg(role backend.Role) *backend.Handle {
	h := backend.NewHandle(e.fpPool, role, e.mintVReg())
	if h == nil {
		panic("translator: FPU register pool exhausted")
	}
	return h
}

func (e *Engine) lruMoveToFront(h *backend.Handle) {
	for i, cur := range e.lru {
		if cur == h {
			e.lru = append(e.lru[:i], e.lru[i+1:]...)
			break
		}
	}
	e.lru = append([]*backend.Handle{h}, e.lru...)
}

// lruDeallocLast frees the least-recently-used handle, matching
// LRU_DeallocLast. Writeback (if the handle is dirty) runs through
// Release's own WritebackFunc hook, not a direct call here, so a handle
// evicted while still retained elsewhere waits for its true last
// reference before anything is written back. Returns false if the LRU is
// empty.
func (e *Engine) lruDeallocLast() bool {
	if len(e.lru) == 0 {
		return false
	}
	last := e.lru[len(e.lru)-1]
	e.lru = e.lru[:len(e.lru)-1]
	if last.RefCount() > 1 {
		e.cfg.logf("register %d (v%d, role %d) evicted with refcount %d still outstanding", last.Reg(), last.VReg().ID(), last.Role(), last.RefCount()-1)
	}
	last.Release()
	e.forgetBinding(last)
	return true
}

func (e *Engine) forgetBinding(h *backend.Handle) {
	for i, d := range e.d {
		if d == h {
			e.d[i] = nil
		}
	}
	for i, a := range e.a {
		if a == h {
			e.a[i] = nil
		}
	}
	if e.pc == h {
		e.pc = nil
	}
	if e.cc == h {
		e.cc = nil
	}
	if e.ctx == h {
		e.ctx = nil
	}
	if e.fpcr == h {
		e.fpcr = nil
	}
	if e.fpsr == h {
		e.fpsr = nil
	}
}

func (cfg Config) logf(format string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Printf("[jit] "+format, args...)
	}
}

// loadReg emits the load that fills a handle's host register from its
// guest-state slot at the given byte offset (W32 for the 32-bit Dn/An/PC/
// FPSR slots, X64 for a 64-bit slot), addressed relative to the resident
// CTX register. SR and FPCR have their own load paths (MRS and LDRH).
func (e *Engine) loadReg(h *backend.Handle, offset int, width arm64.Width) {
	ctx := e.GetCTX()
	if width == arm64.X64 {
		e.emit(arm64.LDR(arm64.X64, arm64.IdxNone, uint8(h.Reg()), uint8(ctx.Reg()), int16(offset/8)))
	} else {
		e.emit(arm64.LDR(arm64.W32, arm64.IdxNone, uint8(h.Reg()), uint8(ctx.Reg()), int16(offset/4)))
	}
}

// saveReg writes a dirty handle's value back to its origin: CC round-trips
// through the system register it was loaded from; FPCR is a 16-bit slot
// and uses the halfword store; FPn values go back through the FP
// register file's float64 slots; Dn/An/PC/FPSR round-trip through guest
// state via CTX-relative word stores.
func (e *Engine) saveReg(h *backend.Handle) {
	switch {
	case e.cc == h:
		e.emit(arm64.MSR(uint8(h.Reg()), arm64.SysRegTPIDR))
	case e.ctx == h:
		// read-only, never touched dirty; nothing to write back.
	case e.pc == h:
		e.storeGuestSlot(h, guest.OffsetPC, arm64.W32)
	case e.fpcr == h:
		ctx := e.GetCTX()
		e.emit(arm64.STRH(arm64.IdxNone, uint8(h.Reg()), uint8(ctx.Reg()), int16(guest.OffsetFPCR/2)))
	default:
		if n := e.fpSlot(h); n >= 0 {
			ctx := e.GetCTX()
			e.emit(arm64.FSTR(uint8(h.Reg()), uint8(ctx.Reg()), int16(guest.FPOffset(n)/8), true))
			break
		}
		offset, width, ok := e.guestSlotOf(h)
		if !ok {
			return
		}
		e.storeGuestSlot(h, offset, width)
	}
	h.ClearDirty()
}

func (e *Engine) fpSlot(h *backend.Handle) int {
	for i, f := range e.fp {
		if f == h {
			return i
		}
	}
	return -1
}

func (e *Engine) storeGuestSlot(h *backend.Handle, offset int, width arm64.Width) {
	ctx := e.GetCTX()
	if width == arm64.X64 {
		e.emit(arm64.STR(arm64.X64, arm64.IdxNone, uint8(h.Reg()), uint8(ctx.Reg()), int16(offset/8)))
	} else {
		e.emit(arm64.STR(arm64.W32, arm64.IdxNone, uint8(h.Reg()), uint8(ctx.Reg()), int16(offset/4)))
	}
}

// guestSlotOf reports the guest.State byte offset and access width backing
// a resident Dn/An/FPSR handle, used by saveReg at eviction/writeback
// time. FPCR and the FP register file have their own store paths in
// saveReg (halfword and FP-register stores respectively).
func (e *Engine) guestSlotOf(h *backend.Handle) (offset int, width arm64.Width, ok bool) {
	for i, d := range e.d {
		if d == h {
			return guest.DataLongOffset(i), arm64.W32, true
		}
	}
	for i, a := range e.a {
		if a == h {
			return guest.AddrLongOffset(i), arm64.W32, true
		}
	}
	if e.fpsr == h {
		return guest.OffsetFPSR, arm64.W32, true
	}
	return 0, 0, false
}

// GetDn returns the handle caching guest data register n, loading it from
// guest state on first reference in this block. The handle is always
// recorded in the LRU at that first reference so pool exhaustion can
// always spill it; DynamicDn additionally governs whether every later
// reference moves it back to the front (cheap on hosts with register
// pressure to spare) or leaves it where first bound (static mapping, the
// AArch64 default, per arm64.DynamicDn).
func (e *Engine) GetDn(n uint8) *backend.Handle {
	n &= 7
	if e.d[n] == nil {
		e.d[n] = e.getReg(backend.RoleM68KReg)
		e.d[n].SetWriteback(e.saveReg)
		e.loadReg(e.d[n], guest.DataLongOffset(int(n)), arm64.W32)
		e.lruMoveToFront(e.d[n])
	} else if e.cfg.DynamicDn {
		e.lruMoveToFront(e.d[n])
	}
	return e.d[n]
}

// GetDnNoLoad binds a host register to Dn without emitting a load,
// for handlers that are about to overwrite the whole register (e.g.
// MOVEQ).
func (e *Engine) GetDnNoLoad(n uint8) *backend.Handle {
	n &= 7
	if e.d[n] == nil {
		e.d[n] = e.getReg(backend.RoleM68KReg)
		e.d[n].SetWriteback(e.saveReg)
		e.lruMoveToFront(e.d[n])
	} else if e.cfg.DynamicDn {
		e.lruMoveToFront(e.d[n])
	}
	return e.d[n]
}

func (e *Engine) GetAn(n uint8) *backend.Handle {
	n &= 7
	if e.a[n] == nil {
		e.a[n] = e.getReg(backend.RoleM68KReg)
		e.a[n].SetWriteback(e.saveReg)
		e.loadReg(e.a[n], guest.AddrLongOffset(int(n)), arm64.W32)
		e.lruMoveToFront(e.a[n])
	} else if e.cfg.DynamicAn {
		e.lruMoveToFront(e.a[n])
	}
	return e.a[n]
}

func (e *Engine) GetAnNoLoad(n uint8) *backend.Handle {
	n &= 7
	if e.a[n] == nil {
		e.a[n] = e.getReg(backend.RoleM68KReg)
		e.a[n].SetWriteback(e.saveReg)
		e.lruMoveToFront(e.a[n])
	} else if e.cfg.DynamicAn {
		e.lruMoveToFront(e.a[n])
	}
	return e.a[n]
}

// GetCTX returns the handle caching the guest-state base pointer, loaded
// via MRS TPIDRRO_EL0 on first reference, matching getCTX() in
// M68k_ExceptionEntry.c.
func (e *Engine) GetCTX() *backend.Handle {
	if e.ctx == nil {
		e.ctx = e.getReg(backend.RoleM68KSpecial)
		e.ctx.SetWriteback(e.saveReg)
		e.emit(arm64.MRS(uint8(e.ctx.Reg()), arm64.SysRegTPIDRRO))
	}
	e.lruMoveToFront(e.ctx)
	return e.ctx
}

// GetCC returns the handle caching the guest SR, loaded via MRS
// TPIDR_EL0 on first reference, matching getSR() in
// M68k_ExceptionEntry.c.
func (e *Engine) GetCC() *backend.Handle {
	if e.cc == nil {
		e.cc = e.getReg(backend.RoleM68KSpecial)
		e.cc.SetWriteback(e.saveReg)
		e.emit(arm64.MRS(uint8(e.cc.Reg()), arm64.SysRegTPIDR))
	}
	e.lruMoveToFront(e.cc)
	return e.cc
}

// GetFPCR caches the guest FP control register; it is a 16-bit slot, so
// its load/store pair is the halfword form rather than loadReg's word
// accesses.
func (e *Engine) GetFPCR() *backend.Handle {
	if e.fpcr == nil {
		e.fpcr = e.getReg(backend.RoleM68KSpecial)
		e.fpcr.SetWriteback(e.saveReg)
		ctx := e.GetCTX()
		e.emit(arm64.LDRH(arm64.IdxNone, uint8(e.fpcr.Reg()), uint8(ctx.Reg()), int16(guest.OffsetFPCR/2)))
	}
	e.lruMoveToFront(e.fpcr)
	return e.fpcr
}

func (e *Engine) GetFPSR() *backend.Handle {
	if e.fpsr == nil {
		e.fpsr = e.getReg(backend.RoleM68KSpecial)
		e.fpsr.SetWriteback(e.saveReg)
		e.loadReg(e.fpsr, guest.OffsetFPSR, arm64.W32)
	}
	e.lruMoveToFront(e.fpsr)
	return e.fpsr
}

// GetFPn returns the FPU-pool handle caching guest FPn (n&7), loading its
// float64 slot from guest state on first reference in this block. FP
// handles never enter the integer LRU; the FPU window is wide enough for
// the two or three registers any one FP opcode touches, and the epilogue
// flushes dirty ones back through the same writeback hook Dn/An use.
func (e *Engine) GetFPn(n uint8) *backend.Handle {
	n &= 7
	if e.fp[n] == nil {
		e.fp[n] = e.getFPReg(backend.RoleM68KReg)
		e.fp[n].SetWriteback(e.saveReg)
		ctx := e.GetCTX()
		e.emit(arm64.FLDR(uint8(e.fp[n].Reg()), uint8(ctx.Reg()), int16(guest.FPOffset(int(n))/8), true))
	}
	return e.fp[n]
}

// GetFPnNoLoad binds FPn without the guest-state load, for handlers about
// to overwrite the whole register.
func (e *Engine) GetFPnNoLoad(n uint8) *backend.Handle {
	n &= 7
	if e.fp[n] == nil {
		e.fp[n] = e.getFPReg(backend.RoleM68KReg)
		e.fp[n].SetWriteback(e.saveReg)
	}
	return e.fp[n]
}

// AdvancePC accumulates a guest PC delta without emitting any host code
// yet: most opcodes only need the *next* opcode's PC, not a flushed one,
// so folding the deltas avoids an ADD/SUB per instruction. If the
// already-pending offset has grown
// past what the flush's ADD/SUB immediate can absorb in one more
// accumulation step (±120), it flushes first so the new delta starts
// from a clean slate rather than risking a flush later with an
// out-of-range immediate.
func (e *Engine) AdvancePC(offset int8) {
	if e.offsetPC > 120 || e.offsetPC < -120 {
		e.FlushPC()
	}
	e.offsetPC += int32(offset)
}

// FlushPC emits the accumulated PC delta as a single ADD/SUB immediate
// against the cached PC register (idempotent: a second call with no
// AdvancePC between is a no-op), bounded by AArch64's 12-bit unsigned
// immediate encoding.
func (e *Engine) FlushPC() {
	if e.offsetPC == 0 {
		return
	}
	pc := e.getPC()
	delta := e.offsetPC
	if delta > 0 {
		e.flushImm(pc, uint32(delta), arm64.ADD)
	} else {
		e.flushImm(pc, uint32(-delta), arm64.SUB)
	}
	pc.Touch()
	e.offsetPC = 0
}

func (e *Engine) flushImm(pc *backend.Handle, delta uint32, op func(arm64.Width, uint8, uint8, uint16) uint32) {
	const immMax = 0xfff
	for delta > 0 {
		chunk := delta
		if chunk > immMax {
			chunk = immMax
		}
		e.emit(op(arm64.X64, uint8(pc.Reg()), uint8(pc.Reg()), uint16(chunk)))
		delta -= chunk
	}
}

// FixupPC adjusts a previously accumulated (but not yet flushed) PC
// offset in place, used by handlers that need to correct a delta they
// already advanced by before a branch is resolved.
func (e *Engine) FixupPC(offset *int8) {
	e.offsetPC -= int32(*offset)
	*offset = 0
}

// getPC lazily binds the dedicated PC cache register, loaded from guest
// state like Dn/An (PC has no own system-register shadow).
func (e *Engine) getPC() *backend.Handle {
	if e.pc == nil {
		e.pc = e.getReg(backend.RoleM68KSpecial)
		e.pc.SetWriteback(e.saveReg)
		e.loadReg(e.pc, guest.OffsetPC, arm64.W32)
	}
	e.lruMoveToFront(e.pc)
	return e.pc
}

// fetch reads the next guest instruction word and advances ptr/count.
func (e *Engine) fetch() (uint16, bool) {
	if e.ptr >= len(e.guestCode) {
		return 0, false
	}
	w := e.guestCode[e.ptr]
	e.ptr++
	e.count++
	addr := e.min + uint32(e.ptr-1)*2
	if addr < e.min {
		e.min = addr
	}
	if addr > e.max {
		e.max = addr
	}
	return w, true
}

// Compile translates guest instruction words starting at guest[0] until a
// control-flow boundary is reached or maxWords is exhausted, returning
// the host instruction stream and block metadata.
func (e *Engine) Compile(guestCode []uint16, maxWords int) (CompileResult, error) {
	e.reset()
	e.guestCode = guestCode
	e.ptr = 0
	e.min = 0
	e.max = 0
	e.count = 0

	e.emitPrologue()

	for maxWords <= 0 || e.count < maxWords {
		word, ok := e.fetch()
		if !ok {
			break
		}
		entry := Lookup(word)
		entry.Handler(e, word)
		if e.terminator != TerminatorNone {
			break
		}
	}

	e.FlushPC()
	e.emitEpilogue()

	code := make([]byte, len(e.stream)*4)
	for i, w := range e.stream {
		binary.LittleEndian.PutUint32(code[i*4:], w)
	}

	result := CompileResult{
		Code:            code,
		MinGuestAddr:    e.min,
		MaxGuestAddr:    e.max,
		WordsConsumed:   e.count,
		Terminator:      e.terminator,
		ExceptionVec:    e.excVector,
		PredictedReturn: e.predictedReturn,
		ReturnPredicted: e.returnPredicted,
	}
	if e.cfg.Allocator != nil {
		buf, err := e.cfg.Allocator.Alloc(uintptr(len(code)), 16)
		if err != nil {
			return CompileResult{}, fmt.Errorf("translator: code allocation failed: %w", err)
		}
		copy(buf, code)
		if e.cfg.Cache != nil && len(buf) > 0 {
			addr := uintptr(unsafe.Pointer(&buf[0]))
			e.cfg.Cache.CleanDataCache(addr, uintptr(len(buf)))
			e.cfg.Cache.InvalidateInstructionCache(addr, uintptr(len(buf)))
		}
	}
	return result, nil
}

// emitPrologue pushes the frame pointer and link register (x29/x30) and
// points x29 at the new frame, mirroring EmitPrologue/EmitEpilogue's role
// of bracketing one compiled block's body. The integer register window
// itself is not saved.
func (e *Engine) emitPrologue() {
	// STP/LDP imm7 is scaled by the access size: -2 doublewords = -16 bytes.
	e.emit(arm64.STP(arm64.X64, arm64.IdxPre, uint8(arm64.R29), uint8(arm64.R30), uint8(arm64.SP), -2))
	// MOV to/from SP is the ADD-immediate alias; the ORR form would read ZR.
	e.emit(arm64.ADD(arm64.X64, uint8(arm64.R29), uint8(arm64.SP), 0))
}

// emitEpilogue flushes every dirty resident register back to guest state
// before the block returns. Each handle's writeback runs through Release,
// exercising the same WritebackFunc hook a mid-block LRU eviction would —
// the "last reference drops, dirty value gets written back" contract is
// real here, not just in handle_test.go.
func (e *Engine) emitEpilogue() {
	for _, d := range e.d {
		if d != nil && d.Dirty() {
			d.Release()
		}
	}
	for _, a := range e.a {
		if a != nil && a.Dirty() {
			a.Release()
		}
	}
	for _, f := range e.fp {
		if f != nil && f.Dirty() {
			f.Release()
		}
	}
	if e.fpcr != nil && e.fpcr.Dirty() {
		e.fpcr.Release()
	}
	if e.fpsr != nil && e.fpsr.Dirty() {
		e.fpsr.Release()
	}
	if e.pc != nil && e.pc.Dirty() {
		e.pc.Release()
	}
	if e.cc != nil && e.cc.Dirty() {
		e.cc.Release()
	}
	e.emit(arm64.LDP(arm64.X64, arm64.IdxPost, uint8(arm64.R29), uint8(arm64.R30), uint8(arm64.SP), 2))
	// Every block, whatever its terminator, returns control to the
	// dispatch runtime; the terminator kind is metadata for the caller,
	// not a different exit path in the emitted code.
	e.emit(arm64.RETDefault())
}
