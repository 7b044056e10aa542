package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	v, ok := AddOverflowSafe(1, 2)
	require.True(t, ok)
	require.Equal(t, 3, v)

	_, ok = AddOverflowSafe(math.MaxInt, 1)
	require.False(t, ok)

	_, ok = AddOverflowSafe(math.MinInt, -1)
	require.False(t, ok)
}

func TestSliceHas(t *testing.T) {
	b := make([]byte, 16)

	s, ok := Slice(b, 4, 8)
	require.True(t, ok)
	require.Len(t, s, 8)

	_, ok = Slice(b, 12, 8)
	require.False(t, ok)

	_, ok = Slice(b, -1, 4)
	require.False(t, ok)

	require.True(t, Has(b, 0, 16))
	require.False(t, Has(b, 0, 17))
}
