//go:build unix

package arena

import (
	"golang.org/x/sys/unix"
)

// MmapStore is a Store backed by an anonymous private mapping. The full cap
// is reserved up front and bytes are handed out sbrk-style, so the base never
// moves and Extend never copies.
type MmapStore struct {
	data []byte // full reservation
	brk  int    // bytes granted so far
}

// NewMmapStore reserves cap bytes of anonymous memory. A cap of 0 selects
// DefaultStoreCap.
func NewMmapStore(cap int) (*MmapStore, error) {
	if cap <= 0 {
		cap = DefaultStoreCap
	}
	data, err := unix.Mmap(-1, 0, cap,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return &MmapStore{data: data}, nil
}

// Bytes returns the granted prefix of the reservation.
func (s *MmapStore) Bytes() []byte { return s.data[:s.brk] }

// Extend grows the granted prefix by n bytes.
func (s *MmapStore) Extend(n int) (int, error) {
	if n <= 0 || s.brk+n > len(s.data) {
		return 0, ErrExhausted
	}
	off := s.brk
	s.brk += n
	return off, nil
}

// Close unmaps the reservation.
func (s *MmapStore) Close() error {
	if s.data == nil {
		return nil
	}
	err := unix.Munmap(s.data)
	s.data = nil
	s.brk = 0
	return err
}
