package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docquantum/basic-malloc/internal/buf"
	"github.com/docquantum/basic-malloc/internal/format"
)

// kinds collapses a violation list into a kind -> count map.
func kinds(vs []Violation) map[string]int {
	m := make(map[string]int)
	for _, v := range vs {
		m[v.Kind]++
	}
	return m
}

func Test_CheckCleanHeapAfterActivity(t *testing.T) {
	al := newTestHeap(t, nil)

	a, err := al.Acquire(100)
	require.NoError(t, err)
	b, err := al.Acquire(500)
	require.NoError(t, err)
	require.NoError(t, al.Release(a))
	_, err = al.Resize(b, 1000)
	require.NoError(t, err)

	require.Empty(t, al.Check(false))
	// Verbose mode dumps a block map to stderr but finds the same nothing.
	require.Empty(t, al.Check(true))
}

func Test_CheckReportsCorruptPrologue(t *testing.T) {
	al := newTestHeap(t, nil)
	b := al.Arena().Bytes()

	buf.PutU32LE(b, format.PrologueStart, format.Pack(format.PrologueSize, false))
	require.Contains(t, kinds(al.Check(false)), KindPrologue)
}

func Test_CheckReportsTagMismatch(t *testing.T) {
	al := newTestHeap(t, nil)
	ref, err := al.Acquire(40)
	require.NoError(t, err)
	b := al.Arena().Bytes()

	// Flip only the footer's allocation bit; the header still says
	// allocated, so the two disagree.
	block := format.BlockOf(int(ref))
	footer := block + format.BlockSize(b, block) - format.WordSize
	buf.PutU32LE(b, footer, format.Pack(format.BlockSize(b, block), false))

	got := kinds(al.Check(false))
	require.Contains(t, got, KindTagMismatch)
	require.NotContains(t, got, KindAccounting, "sizes still add up")
}

func Test_CheckReportsRogueFreeBlock(t *testing.T) {
	al := newTestHeap(t, nil)
	ref, err := al.Acquire(40)
	require.NoError(t, err)
	b := al.Arena().Bytes()

	// Retag the allocated block free without telling the list: it now
	// borders the free remainder and is unreachable from the head.
	block := format.BlockOf(int(ref))
	format.PutTags(b, block, format.BlockSize(b, block), false)

	got := kinds(al.Check(false))
	require.Contains(t, got, KindAdjacentFree)
	require.Contains(t, got, KindNotListed)
}

func Test_CheckReportsCorruptEpilogue(t *testing.T) {
	al := newTestHeap(t, nil)
	b := al.Arena().Bytes()

	// Clear the epilogue's allocation bit.
	buf.PutU32LE(b, len(b)-format.WordSize, format.Pack(0, false))
	require.Contains(t, kinds(al.Check(false)), KindEpilogue)
}

func Test_CheckReportsRunawaySize(t *testing.T) {
	al := newTestHeap(t, nil)
	ref, err := al.Acquire(40)
	require.NoError(t, err)
	b := al.Arena().Bytes()

	block := format.BlockOf(int(ref))
	buf.PutU32LE(b, block, format.Pack(1<<20, true))
	require.Contains(t, kinds(al.Check(false)), KindBadSize)
}

func Test_CheckReportsBrokenLink(t *testing.T) {
	al := newTestHeap(t, nil)
	b := al.Arena().Bytes()

	// The fresh heap's single free block links to itself; point its
	// forward link past the region.
	format.SetLinkNext(b, format.FirstBlock, len(b)+64)
	require.Contains(t, kinds(al.Check(false)), KindListLink)
}

func Test_CheckReportsListedNotFree(t *testing.T) {
	al := newTestHeap(t, nil)
	b := al.Arena().Bytes()

	// Retag the listed block allocated without unsplicing it.
	format.PutTags(b, format.FirstBlock, format.BlockSize(b, format.FirstBlock), true)

	got := kinds(al.Check(false))
	require.Contains(t, got, KindListTag)
	require.Contains(t, got, KindNotFree)
}

func Test_ViolationString(t *testing.T) {
	v := Violation{Kind: KindTagMismatch, Offset: 0x30, Detail: "header=0x31 footer=0x30"}
	require.Equal(t, "tag-mismatch at 0x30: header=0x31 footer=0x30", v.String())

	v = Violation{Kind: KindAccounting, Offset: -1, Detail: "blocks cover 100 of 200 region bytes"}
	require.Equal(t, "accounting: blocks cover 100 of 200 region bytes", v.String())
}
