package arena

// DefaultStoreCap is the default reservation for a store: 20 MiB, the fixed
// ceiling the trace harness traditionally works against.
const DefaultStoreCap = 20 << 20

// Store supplies the raw bytes behind a managed region. It is the allocator's
// only view of the operating environment: a monotonically growing, contiguous
// byte range with stable offsets.
//
// Extend either succeeds in full or fails with ErrExhausted; there is no
// partial growth. Stores never shrink.
type Store interface {
	// Bytes returns the currently granted range. The slice header may
	// change across Extend calls; offsets into it never do.
	Bytes() []byte

	// Extend grows the range by n bytes and returns the offset of the
	// first new byte. New bytes are zeroed.
	Extend(n int) (int, error)

	// Close releases the underlying reservation.
	Close() error
}

// SliceStore is a Store backed by an ordinary Go slice with a fixed cap.
// It is the default store and the portable fallback for MmapStore.
type SliceStore struct {
	data []byte
	cap  int
}

// NewSliceStore returns a slice-backed store that refuses to grow past cap.
// A cap of 0 selects DefaultStoreCap.
func NewSliceStore(cap int) *SliceStore {
	if cap <= 0 {
		cap = DefaultStoreCap
	}
	return &SliceStore{cap: cap}
}

// Bytes returns the granted range.
func (s *SliceStore) Bytes() []byte { return s.data }

// Extend grows the range by n bytes.
func (s *SliceStore) Extend(n int) (int, error) {
	if n <= 0 {
		return 0, ErrExhausted
	}
	if len(s.data)+n > s.cap {
		return 0, ErrExhausted
	}
	off := len(s.data)
	s.data = append(s.data, make([]byte, n)...)
	return off, nil
}

// Close drops the backing slice.
func (s *SliceStore) Close() error {
	s.data = nil
	return nil
}
