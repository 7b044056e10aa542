package alloc

import (
	"fmt"

	"github.com/docquantum/basic-malloc/internal/buf"
	"github.com/docquantum/basic-malloc/internal/format"
)

// The free list is circular, doubly linked, and ordered by ascending block
// address. Link words live in the free block's own payload area (offsets, not
// pointers), which is safe only because a free block has no live payload.
// The head roves: inserts and placements reposition it toward recently
// touched blocks, shortening first-fit scans for similar follow-up requests.

// insertFree frees the block at off: flips its tags to free, merges with any
// physically adjacent free neighbor, and splices the result into the list.
//
// Contract: the block's tags must currently say allocated. A violation is
// reported and the list is left untouched.
//
// Coalescing is decided by direct physical adjacency (boundary tags), never
// by list position. A merge reuses an absorbed neighbor's list position, so
// only an unmerged block pays for the address-order position search.
func (al *Allocator) insertFree(off int) error {
	b := al.ar.Bytes()
	hdr := format.Header(b, off)
	size, allocated := format.Unpack(hdr)
	if !allocated || size < format.MinBlockSize || format.Footer(b, off) != hdr {
		al.stats.MisuseReports++
		debugLogf("insert rejected at %#x: size=%d allocated=%v", off, size, allocated)
		return fmt.Errorf("%w: insert at %#x", ErrNotAllocated, off)
	}

	prev := format.PrevBlock(b, off)
	next := off + size
	prevFree := !format.Allocated(b, prev) // sentinels are allocated, so no bounds case
	nextFree := !format.Allocated(b, next)

	switch {
	case prevFree:
		// Absorb into the previous block. It is already spliced at the
		// right address position, so its links stay as they are.
		al.stats.CoalesceBackward++
		size += format.BlockSize(b, prev)
		if nextFree {
			al.stats.CoalesceForward++
			size += format.BlockSize(b, next)
			al.unsplice(b, next)
		}
		format.PutTags(b, prev, size, false)
		al.head = prev

	case nextFree:
		// The merged block starts at off and ends where next ended;
		// it inherits next's list position.
		al.stats.CoalesceForward++
		size += format.BlockSize(b, next)
		pred := format.LinkPrev(b, next)
		succ := format.LinkNext(b, next)
		format.PutTags(b, off, size, false)
		if succ == next {
			// next was the only member
			format.SetLinks(b, off, off, off)
		} else {
			al.spliceBetween(b, pred, off, succ)
		}
		al.head = off

	case al.head == 0:
		format.PutTags(b, off, size, false)
		format.SetLinks(b, off, off, off)
		al.head = off

	default:
		format.PutTags(b, off, size, false)
		pred := al.findPosition(b, off)
		al.spliceBetween(b, pred, off, format.LinkNext(b, pred))
		al.head = off
	}
	return nil
}

// removeFree unsplices the block at off, leaving its tags untouched. The
// caller flips the tags separately when allocating it.
//
// Contract: the block must be a list member. A violation is reported and the
// list is left untouched.
func (al *Allocator) removeFree(off int) error {
	b := al.ar.Bytes()
	if al.head == 0 || format.Allocated(b, off) {
		al.stats.MisuseReports++
		debugLogf("remove rejected at %#x: not a free-list member", off)
		return fmt.Errorf("%w: remove at %#x", ErrNotInList, off)
	}
	next := format.LinkNext(b, off)
	prev := format.LinkPrev(b, off)
	if !al.linkInBounds(b, next) || !al.linkInBounds(b, prev) ||
		format.LinkPrev(b, next) != off || format.LinkNext(b, prev) != off {
		al.stats.MisuseReports++
		debugLogf("remove rejected at %#x: broken links prev=%#x next=%#x", off, prev, next)
		return fmt.Errorf("%w: remove at %#x", ErrNotInList, off)
	}
	al.unsplice(b, off)
	return nil
}

// findFirstFit walks the circular list from the current head and returns the
// first block whose size is at least size, or 0 when no member fits.
func (al *Allocator) findFirstFit(size int) int {
	if al.head == 0 {
		return 0
	}
	b := al.ar.Bytes()
	p := al.head
	for {
		if format.BlockSize(b, p) >= size {
			return p
		}
		p = format.LinkNext(b, p)
		if p == al.head {
			return 0
		}
	}
}

// findPosition returns the list predecessor for a block at off, keeping the
// circular list ordered by address. The scan starts at the roving head, so
// the wrap point (highest address linking back to lowest) needs its own test.
func (al *Allocator) findPosition(b []byte, off int) int {
	p := al.head
	for {
		n := format.LinkNext(b, p)
		if p < off && off < n {
			return p
		}
		if p >= n && (off > p || off < n) {
			return p
		}
		p = n
		if p == al.head {
			return p
		}
	}
}

// spliceBetween links the block at off between pred and succ.
func (al *Allocator) spliceBetween(b []byte, pred, off, succ int) {
	format.SetLinks(b, off, pred, succ)
	format.SetLinkNext(b, pred, off)
	format.SetLinkPrev(b, succ, off)
}

// unsplice removes a known member from the list and fixes the head.
func (al *Allocator) unsplice(b []byte, off int) {
	next := format.LinkNext(b, off)
	if next == off {
		al.head = 0
		return
	}
	prev := format.LinkPrev(b, off)
	format.SetLinkNext(b, prev, next)
	format.SetLinkPrev(b, next, prev)
	if al.head == off {
		al.head = next
	}
}

// linkInBounds reports whether a link word can be a block offset at all.
func (al *Allocator) linkInBounds(b []byte, off int) bool {
	return off >= format.FirstBlock &&
		buf.Has(b, off, format.MinBlockSize) &&
		(off-format.PrologueStart)%format.DWordSize == 0
}
