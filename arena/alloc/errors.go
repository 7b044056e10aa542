package alloc

import "errors"

var (
	// ErrBadSize indicates a zero or negative size request.
	ErrBadSize = errors.New("alloc: size must be positive")

	// ErrNoSpace indicates that no free block large enough was found and
	// growing the region failed.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadRef indicates a handle that is nil, out of bounds, misaligned,
	// or whose boundary tags are not well formed.
	ErrBadRef = errors.New("alloc: bad block handle")

	// ErrNotAllocated indicates a handle whose block is not currently
	// allocated (double release, or a pointer this allocator never issued).
	ErrNotAllocated = errors.New("alloc: block not allocated")

	// ErrNotInList indicates an attempt to remove a block that is not a
	// member of the free list.
	ErrNotInList = errors.New("alloc: block not in free list")
)
