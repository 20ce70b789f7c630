// Package memtest provides in-process stand-ins for the two collaborator
// interfaces translator.Engine is constructed with (translator.CodeAllocator
// and translator.CacheMaintainer). A real allocator hands out execute-permitted
// memory from a TLSF-style pool, and real cache maintenance issues physical
// AArch64 cache-maintenance instructions; neither belongs in a host-process Go
// test binary, so this package plays both parts with a plain byte slice and a
// call log instead.
package memtest

import "fmt"

// Allocator is a bump allocator over a fixed-size backing array, enough to
// host one translated block's worth of code at a time in tests and in the
// CLI's demonstration path.
type Allocator struct {
	buf    []byte
	offset uintptr
}

// NewAllocator creates an allocator backed by a size-byte arena.
func NewAllocator(size int) *Allocator {
	return &Allocator{buf: make([]byte, size)}
}

// Alloc returns the next align-aligned size-byte slice of the arena.
func (a *Allocator) Alloc(size, align uintptr) ([]byte, error) {
	start := (a.offset + align - 1) &^ (align - 1)
	if start+size > uintptr(len(a.buf)) {
		return nil, fmt.Errorf("memtest: arena exhausted: need %d bytes at offset %d, have %d", size, start, len(a.buf))
	}
	a.offset = start + size
	return a.buf[start : start+size], nil
}

// Free is a no-op: the arena is reclaimed in bulk by discarding the
// Allocator, matching how a test or CLI invocation compiles one block and
// exits.
func (a *Allocator) Free([]byte) {}

// Cache records the (addr, length) pairs it is asked to maintain, so tests
// can assert the engine makes exactly one clean and one invalidate call
// per compiled block. The two kinds of call are kept in separate slices,
// so their relative order is not recorded.
type Cache struct {
	Cleaned     []Range
	Invalidated []Range
}

// Range is one (addr, length) cache-maintenance call.
type Range struct {
	Addr   uintptr
	Length uintptr
}

func (c *Cache) CleanDataCache(addr, length uintptr) {
	c.Cleaned = append(c.Cleaned, Range{addr, length})
}

func (c *Cache) InvalidateInstructionCache(addr, length uintptr) {
	c.Invalidated = append(c.Invalidated, Range{addr, length})
}
