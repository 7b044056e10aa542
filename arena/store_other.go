//go:build !unix

package arena

// MmapStore falls back to a slice-backed store on platforms without a usable
// anonymous mmap. Offsets remain stable; only the zero-copy reservation is
// lost.
type MmapStore struct {
	SliceStore
}

// NewMmapStore returns the portable fallback store.
func NewMmapStore(cap int) (*MmapStore, error) {
	return &MmapStore{SliceStore: *NewSliceStore(cap)}, nil
}
