package alloc

import "github.com/docquantum/basic-malloc/arena"

// Config tunes an allocator instance.
type Config struct {
	// ChunkSize is the region growth granularity: when no free block
	// fits, the region is extended by max(rounded request, ChunkSize).
	ChunkSize int

	// StoreCap bounds the backing store when the allocator builds its
	// own. Zero selects arena.DefaultStoreCap.
	StoreCap int
}

// DefaultConfig is used when New is given a nil config. The 4 KiB chunk
// matches the classic growth granularity for this design.
var DefaultConfig = Config{
	ChunkSize: 4096,
	StoreCap:  arena.DefaultStoreCap,
}
