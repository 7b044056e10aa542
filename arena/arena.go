// Package arena owns the managed byte range behind the allocator: a single
// contiguous region bounded by a prologue and an epilogue sentinel, grown in
// whole extensions through a Store and never shrunk.
//
// The arena knows the sentinel layout and how to extend the range; block
// placement, free-list management, and coalescing live in arena/alloc.
package arena

import (
	"fmt"

	"github.com/docquantum/basic-malloc/internal/format"
)

// Arena is the managed region. All state is held here explicitly so callers
// can run any number of independent instances.
type Arena struct {
	store Store
}

// New initializes an empty region on store: one padding word, the prologue
// block (fixed minimal size, allocated), and the epilogue header (size zero,
// allocated). The store must not have granted any bytes yet.
func New(store Store) (*Arena, error) {
	if len(store.Bytes()) != 0 {
		return nil, ErrStoreNotEmpty
	}
	if _, err := store.Extend(format.RegionHeaderSize); err != nil {
		return nil, fmt.Errorf("arena: init: %w", err)
	}
	b := store.Bytes()
	format.PutTags(b, format.PrologueStart, format.PrologueSize, true)
	format.PutEpilogue(b, format.FirstBlock)
	return &Arena{store: store}, nil
}

// Bytes returns the current region contents. The slice header may change
// after Extend; offsets into it are stable.
func (a *Arena) Bytes() []byte { return a.store.Bytes() }

// Size returns the current region size in bytes.
func (a *Arena) Size() int { return len(a.store.Bytes()) }

// Extend grows the region by at least n bytes (rounded to alignment) and
// returns the offset of the resulting new block. The old epilogue word
// becomes the new block's header and a fresh epilogue is written after it.
//
// The new block is tagged allocated: it has not been published to the free
// list yet, and handing it over in that state lets the caller reuse the
// same insert path (tag flip plus coalescing) as an ordinary release.
// On ErrExhausted the region is unchanged.
func (a *Arena) Extend(n int) (int, error) {
	n = format.Align(n)
	block := a.Size() - format.WordSize // old epilogue header
	if _, err := a.store.Extend(n); err != nil {
		return 0, fmt.Errorf("arena: extend %d: %w", n, err)
	}
	b := a.store.Bytes()
	format.PutTags(b, block, n, true)
	format.PutEpilogue(b, block+n)
	return block, nil
}

// Close releases the backing store.
func (a *Arena) Close() error { return a.store.Close() }
