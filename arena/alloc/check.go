package alloc

import (
	"fmt"
	"os"

	"github.com/docquantum/basic-malloc/internal/format"
)

// Violation describes one structural invariant failure found by Check.
type Violation struct {
	Kind   string // short machine-stable category
	Offset int    // block offset, -1 when not tied to one block
	Detail string
}

func (v Violation) String() string {
	if v.Offset >= 0 {
		return fmt.Sprintf("%s at %#x: %s", v.Kind, v.Offset, v.Detail)
	}
	return fmt.Sprintf("%s: %s", v.Kind, v.Detail)
}

// Violation kinds reported by Check.
const (
	KindPrologue     = "prologue"
	KindEpilogue     = "epilogue"
	KindTagMismatch  = "tag-mismatch"
	KindBadSize      = "bad-size"
	KindAdjacentFree = "adjacent-free"
	KindAccounting   = "accounting"
	KindListTag      = "list-tag"
	KindListLink     = "list-link"
	KindListOrder    = "list-order"
	KindListCycle    = "list-cycle"
	KindNotListed    = "free-not-listed"
	KindNotFree      = "listed-not-free"
)

// Check validates every structural invariant: sentinel integrity, the
// physical block chain, the free list, and the agreement between the two.
// It reports every violation found rather than stopping at the first, and
// never mutates state. With verbose set it dumps a block map to stderr.
func (al *Allocator) Check(verbose bool) []Violation {
	b := al.ar.Bytes()
	var vs []Violation
	report := func(kind string, off int, detail string, args ...any) {
		vs = append(vs, Violation{Kind: kind, Offset: off, Detail: fmt.Sprintf(detail, args...)})
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "region: %d bytes, free-list head %#x\n", len(b), al.head)
	}

	// Prologue: fixed sentinel values.
	phdr := format.Header(b, format.PrologueStart)
	if psize, palloc := format.Unpack(phdr); psize != format.PrologueSize || !palloc {
		report(KindPrologue, format.PrologueStart, "size=%d allocated=%v", psize, palloc)
	} else if format.Footer(b, format.PrologueStart) != phdr {
		report(KindPrologue, format.PrologueStart, "footer disagrees with header")
	}

	// Physical walk from the prologue's successor to the epilogue.
	physFree := make(map[int]int)
	total := format.PadSize + format.PrologueSize
	prevFree := false
	off := format.FirstBlock
	walkOK := true
	for {
		hdr := format.Header(b, off)
		size, allocated := format.Unpack(hdr)
		if size == 0 {
			break // epilogue
		}
		if size < format.MinBlockSize || size%format.DWordSize != 0 {
			report(KindBadSize, off, "size=%d", size)
			walkOK = false
			break
		}
		if off+size > len(b)-format.WordSize {
			report(KindBadSize, off, "size=%d runs past region end %d", size, len(b))
			walkOK = false
			break
		}
		if format.Footer(b, off) != hdr {
			report(KindTagMismatch, off, "header=%#x footer=%#x", hdr, format.Footer(b, off))
		}
		if verbose {
			state := byte('a')
			if !allocated {
				state = 'f'
			}
			fmt.Fprintf(os.Stderr, "  %#x: [%d:%c]\n", off, size, state)
		}
		if !allocated {
			if prevFree {
				report(KindAdjacentFree, off, "previous block is also free")
			}
			physFree[off] = size
		}
		prevFree = !allocated
		total += size
		off += size
	}

	if walkOK {
		// Epilogue: size zero, allocated, and positioned so that block
		// bytes account for the whole region.
		if esize, ealloc := format.Unpack(format.Header(b, off)); esize != 0 || !ealloc {
			report(KindEpilogue, off, "size=%d allocated=%v", esize, ealloc)
		}
		total += format.WordSize
		if total != len(b) {
			report(KindAccounting, -1, "blocks cover %d of %d region bytes", total, len(b))
		}
	}

	// Independent free-list walk.
	listed := make(map[int]bool)
	if al.head != 0 {
		p := al.head
		descents := 0
		limit := len(physFree) + 1
		for i := 0; ; i++ {
			if i > limit || listed[p] {
				report(KindListCycle, p, "list walk did not return to head after %d members", i)
				break
			}
			listed[p] = true
			if format.Allocated(b, p) {
				report(KindListTag, p, "list member tagged allocated")
			}
			n := format.LinkNext(b, p)
			if !al.linkInBounds(b, n) {
				report(KindListLink, p, "forward link %#x out of bounds", n)
				break
			}
			if format.LinkPrev(b, n) != p {
				report(KindListLink, p, "successor %#x does not link back", n)
			}
			if n <= p {
				descents++
			}
			p = n
			if p == al.head {
				break
			}
		}
		if len(listed) > 1 && descents > 1 {
			report(KindListOrder, -1, "%d descents in one circular pass", descents)
		}
	}

	// Cross-validation: free if and only if reachable from the head.
	for off := range physFree {
		if !listed[off] {
			report(KindNotListed, off, "block tagged free but unreachable from head")
		}
	}
	for off := range listed {
		if _, ok := physFree[off]; !ok {
			report(KindNotFree, off, "list member not among physically free blocks")
		}
	}

	return vs
}
