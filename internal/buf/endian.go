// Package buf contains helpers for endian-safe word access over raw heap bytes.
package buf

import "encoding/binary"

// U32LE reads a little-endian uint32 from b at off. Returns 0 when the word
// does not fit.
func U32LE(b []byte, off int) uint32 {
	if off < 0 || off+4 > len(b) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[off:])
}

// PutU32LE writes v as a little-endian uint32 at off. Out-of-bounds writes are
// dropped.
func PutU32LE(b []byte, off int, v uint32) {
	if off < 0 || off+4 > len(b) {
		return
	}
	binary.LittleEndian.PutUint32(b[off:], v)
}
