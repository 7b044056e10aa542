package alloc

import (
	"fmt"
	"os"

	"github.com/docquantum/basic-malloc/arena"
	"github.com/docquantum/basic-malloc/internal/format"
)

// Runtime flag for allocation diagnostics - controlled by MEMCTL_LOG_ALLOC env var.
var logAlloc = os.Getenv("MEMCTL_LOG_ALLOC") != ""

// debugLogf prints a diagnostic line when allocation logging is enabled.
func debugLogf(msg string, args ...any) {
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] "+msg+"\n", args...)
	}
}

// Allocator serves acquire, release, and resize requests over one managed
// region with first-fit placement and immediate bidirectional coalescing.
// All state lives here; instances are independent and not safe for
// concurrent use.
type Allocator struct {
	ar  *arena.Arena
	cfg Config

	// head is the block offset of the free-list head, 0 when empty.
	head int

	stats Stats
}

// New initializes an allocator over ar: the arena has already written the
// sentinels, and New performs the one initial region growth that seeds the
// free list. A nil cfg selects DefaultConfig.
func New(ar *arena.Arena, cfg *Config) (*Allocator, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	al := &Allocator{ar: ar, cfg: *cfg}
	if err := al.extendRegion(al.cfg.ChunkSize); err != nil {
		return nil, err
	}
	return al, nil
}

// NewWithStore builds a store from cfg, wraps it in an arena, and returns an
// allocator over it. Convenience for callers that don't share the arena.
func NewWithStore(cfg *Config) (*Allocator, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	ar, err := arena.New(arena.NewSliceStore(cfg.StoreCap))
	if err != nil {
		return nil, err
	}
	return New(ar, cfg)
}

// Arena returns the managed region, for inspection by diagnostics and tests.
func (al *Allocator) Arena() *arena.Arena { return al.ar }

// Acquire returns a handle to a block with at least size payload bytes.
// size must be positive. On exhaustion the heap is left unchanged.
func (al *Allocator) Acquire(size int) (Ref, error) {
	al.stats.AcquireCalls++
	if size <= 0 {
		return NoRef, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	asize := format.BlockSizeFor(size)

	block := al.findFirstFit(asize)
	if block == 0 {
		grow := asize
		if grow < al.cfg.ChunkSize {
			grow = al.cfg.ChunkSize
		}
		if err := al.extendRegion(grow); err != nil {
			debugLogf("acquire(%d): grow %d failed: %v", size, grow, err)
			return NoRef, fmt.Errorf("%w: %w", ErrNoSpace, err)
		}
		block = al.findFirstFit(asize)
		if block == 0 {
			// Growth produced a coalesced block of at least asize,
			// so this cannot be reached with intact structures.
			return NoRef, ErrNoSpace
		}
	}

	ref, consumed := al.place(block, asize)
	al.stats.BytesAllocated += int64(consumed)
	return ref, nil
}

// Release frees a previously acquired handle. Misuse is reported and treated
// as a no-op; nothing is ever written through a bad handle.
func (al *Allocator) Release(ref Ref) error {
	al.stats.ReleaseCalls++
	block, size, err := al.validateAllocated(ref)
	if err != nil {
		al.stats.MisuseReports++
		debugLogf("release misuse: %v", err)
		return err
	}
	al.stats.BytesFreed += int64(size)
	return al.insertFree(block)
}

// Resize changes the block behind ref to newSize payload bytes.
//
//   - newSize 0 releases ref and returns NoRef.
//   - ref NoRef is a plain Acquire.
//   - Equal rounded size, or a shrink smaller than one minimum block,
//     returns ref unchanged.
//   - A larger shrink carves the tail off as a new free block in place.
//   - A grow absorbs a free physical successor in place when that covers
//     the request; otherwise the block is relocated and min(old, new)
//     payload bytes are copied. On relocation failure the old handle stays
//     valid and the heap is unchanged.
func (al *Allocator) Resize(ref Ref, newSize int) (Ref, error) {
	al.stats.ResizeCalls++
	if newSize < 0 {
		return NoRef, fmt.Errorf("%w: %d", ErrBadSize, newSize)
	}
	if newSize == 0 {
		if ref == NoRef {
			return NoRef, nil
		}
		return NoRef, al.Release(ref)
	}
	if ref == NoRef {
		return al.Acquire(newSize)
	}

	block, csize, err := al.validateAllocated(ref)
	if err != nil {
		al.stats.MisuseReports++
		debugLogf("resize misuse: %v", err)
		return NoRef, err
	}
	asize := format.BlockSizeFor(newSize)
	b := al.ar.Bytes()

	if asize == csize {
		return ref, nil
	}

	if asize < csize {
		if csize-asize < format.MinBlockSize {
			// The cut-off would be an unusable sliver; keep it as
			// internal fragmentation.
			return ref, nil
		}
		al.stats.Splits++
		format.PutTags(b, block, asize, true)
		tail := block + asize
		format.PutTags(b, tail, csize-asize, true)
		if err := al.insertFree(tail); err != nil {
			return NoRef, err
		}
		return ref, nil
	}

	// Grow in place if the physical successor is free and closes the gap.
	next := block + csize
	if !format.Allocated(b, next) {
		total := csize + format.BlockSize(b, next)
		if total >= asize {
			if err := al.removeFree(next); err != nil {
				return NoRef, err
			}
			al.stats.InPlaceGrows++
			if total-asize >= format.MinBlockSize {
				al.stats.Splits++
				format.PutTags(b, block, asize, true)
				rem := block + asize
				format.PutTags(b, rem, total-asize, true)
				if err := al.insertFree(rem); err != nil {
					return NoRef, err
				}
			} else {
				format.PutTags(b, block, total, true)
			}
			al.stats.BytesAllocated += int64(format.BlockSize(b, block) - csize)
			return ref, nil
		}
	}

	// Relocate and copy.
	newRef, err := al.Acquire(newSize)
	if err != nil {
		return NoRef, err
	}
	al.stats.Relocations++
	b = al.ar.Bytes() // Acquire may have grown the region
	newBlock := format.BlockOf(int(newRef))
	n := format.PayloadSize(csize)
	if avail := format.PayloadSize(format.BlockSize(b, newBlock)); avail < n {
		n = avail
	}
	copy(b[int(newRef):int(newRef)+n], b[format.PayloadOf(block):format.PayloadOf(block)+n])
	al.stats.BytesFreed += int64(csize)
	if err := al.insertFree(block); err != nil {
		return NoRef, err
	}
	return newRef, nil
}

// place allocates asize bytes at the head of the free block at off. The
// remainder is split off as its own free block when it is at least one
// minimum block; otherwise the whole block is consumed. Returns the payload
// handle and the bytes actually consumed.
func (al *Allocator) place(off, asize int) (Ref, int) {
	b := al.ar.Bytes()
	csize := format.BlockSize(b, off)
	pred := format.LinkPrev(b, off)
	succ := format.LinkNext(b, off)
	only := succ == off
	al.unsplice(b, off)

	if csize-asize >= format.MinBlockSize {
		al.stats.Splits++
		format.PutTags(b, off, asize, true)
		rem := off + asize
		format.PutTags(b, rem, csize-asize, false)
		if only {
			format.SetLinks(b, rem, rem, rem)
		} else {
			// The remainder occupies the vacated slot: pred < off
			// < rem < succ, so address order is preserved without
			// a scan.
			al.spliceBetween(b, pred, rem, succ)
		}
		al.head = rem
		return Ref(format.PayloadOf(off)), asize
	}

	format.PutTags(b, off, csize, true)
	return Ref(format.PayloadOf(off)), csize
}

// extendRegion grows the managed region by at least n bytes and publishes
// the new block, coalescing it with a trailing free block if one exists.
func (al *Allocator) extendRegion(n int) error {
	block, err := al.ar.Extend(n)
	if err != nil {
		return err
	}
	al.stats.ExtendCalls++
	al.stats.ExtendBytes += int64(format.Align(n))
	return al.insertFree(block)
}

// validateAllocated checks every property a caller-supplied handle must have
// before the allocator will touch the block behind it: non-nil, aligned, in
// bounds, well-formed agreeing tags, and currently allocated. Returns the
// block offset and size.
func (al *Allocator) validateAllocated(ref Ref) (int, int, error) {
	if ref == NoRef {
		return 0, 0, fmt.Errorf("%w: nil handle", ErrBadRef)
	}
	b := al.ar.Bytes()
	payload := int(ref)
	if payload%format.DWordSize != 0 {
		return 0, 0, fmt.Errorf("%w: misaligned handle %#x", ErrBadRef, payload)
	}
	block := format.BlockOf(payload)
	if block < format.FirstBlock || block+format.MinBlockSize > len(b) {
		return 0, 0, fmt.Errorf("%w: handle %#x out of bounds", ErrBadRef, payload)
	}
	hdr := format.Header(b, block)
	size, allocated := format.Unpack(hdr)
	if size < format.MinBlockSize || block+size > len(b)-format.WordSize {
		return 0, 0, fmt.Errorf("%w: handle %#x has bad size %d", ErrBadRef, payload, size)
	}
	if !allocated {
		return 0, 0, fmt.Errorf("%w: handle %#x", ErrNotAllocated, payload)
	}
	if format.Footer(b, block) != hdr {
		return 0, 0, fmt.Errorf("%w: handle %#x footer disagrees", ErrBadRef, payload)
	}
	return block, size, nil
}
