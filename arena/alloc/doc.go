// Package alloc implements the allocation engine over a managed arena: an
// explicit, address-ordered, circular doubly-linked free list over
// boundary-tagged blocks, with first-fit placement and immediate
// bidirectional coalescing.
//
// # Overview
//
// Every block carries a header and a bit-identical footer encoding
// (size, allocated). The footer is what makes O(1) backward traversal
// possible: the word just before a block's header is the previous block's
// footer, so coalescing can inspect both physical neighbors without any
// side index. Free blocks additionally carry forward and backward list
// links in their first two payload words.
//
// # Operations
//
//   - Acquire(size): first-fit search from the roving head, split when the
//     remainder is at least one minimum block, grow the region otherwise.
//   - Release(ref): validate the handle, flip the tags, coalesce with any
//     free physical neighbor, splice into the address-ordered list.
//   - Resize(ref, n): in-place shrink with a tail carve, in-place grow by
//     absorbing a free successor, or relocate-and-copy as a last resort.
//   - Check(verbose): full structural validation for tests and diagnostics.
//
// # Handles
//
// Handles are uint32 payload offsets into the region, never pointers. They
// survive region growth (the region never moves logically and never
// shrinks) and the free-list links stored in freed payloads are offsets
// too, so no memory is ever aliased behind the caller's back.
//
// # Usage
//
//	ar, err := arena.New(arena.NewSliceStore(0))
//	if err != nil {
//		return err
//	}
//	al, err := alloc.New(ar, nil)
//	if err != nil {
//		return err
//	}
//
//	ref, err := al.Acquire(256)
//	if err != nil {
//		return err
//	}
//	// ... use al.Arena().Bytes()[ref : int(ref)+256] ...
//	err = al.Release(ref)
//
// # Failure semantics
//
// Exhaustion surfaces as an error wrapping ErrNoSpace with the heap
// unchanged. A bad handle (nil, double release, foreign pointer) is
// reported and treated as a no-op; the allocator never writes through a
// handle it cannot validate. Structural corruption is only ever reported by
// Check, which never mutates.
//
// # Thread safety
//
// Allocator instances are not thread-safe. Callers serialize externally or
// run one instance per goroutine.
package alloc
