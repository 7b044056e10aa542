package buf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU32LE(t *testing.T) {
	b := []byte{0x78, 0x56, 0x34, 0x12, 0xFF}
	require.Equal(t, uint32(0x12345678), U32LE(b, 0))
	require.Equal(t, uint32(0), U32LE(b, 2), "short read returns zero")
	require.Equal(t, uint32(0), U32LE(b, -1), "negative offset returns zero")
}

func TestPutU32LE(t *testing.T) {
	b := make([]byte, 8)
	PutU32LE(b, 4, 0xDEADBEEF)
	require.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, b[4:8])

	// Out-of-bounds writes must be dropped, not panic.
	PutU32LE(b, 6, 1)
	PutU32LE(b, -1, 1)
	require.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, b[4:8])
}

func TestRoundTrip(t *testing.T) {
	b := make([]byte, 4)
	for _, v := range []uint32{0, 1, 0x7FFFFFFF, 0xFFFFFFF8} {
		PutU32LE(b, 0, v)
		require.Equal(t, v, U32LE(b, 0))
	}
}
