package format

// Binary layout constants for the managed region.
//
// The region is bounded by two sentinel blocks and begins with one padding
// word so that every block's payload lands on a double-word boundary:
//
//	Offset  Size  Description
//	0x00    4     Padding word (never part of any block; offset 0 is the
//	              nil value for handles and free-list links)
//	0x04    8     Prologue block: header + footer, tagged allocated
//	0x0C    ...   Zero or more blocks
//	end-4   4     Epilogue header: size 0, tagged allocated
const (
	// WordSize is the tag word size in bytes.
	WordSize = 4

	// DWordSize is the alignment granularity. Block sizes and payload
	// offsets are always multiples of this.
	DWordSize = 8

	// AlignMask masks the low bits that alignment guarantees to be zero.
	AlignMask = DWordSize - 1

	// MinBlockSize is the smallest legal block: header + footer plus two
	// link words so a free block can carry its own list node.
	MinBlockSize = 2*WordSize + 2*WordSize

	// PadSize is the single alignment padding word at region start.
	PadSize = WordSize

	// PrologueStart is the block offset of the prologue sentinel.
	PrologueStart = PadSize

	// PrologueSize is the fixed prologue block size (header + footer only).
	PrologueSize = 2 * WordSize

	// FirstBlock is the block offset of the first real block, immediately
	// after the prologue. In an empty region the epilogue header sits here.
	FirstBlock = PrologueStart + PrologueSize

	// RegionHeaderSize is the size of an empty region: pad + prologue +
	// epilogue header.
	RegionHeaderSize = PadSize + PrologueSize + WordSize
)

// Tag word encoding. The low three bits of a size are always zero, so bit 0
// is free to carry the allocation flag.
const (
	AllocBit = uint32(0x1)
	SizeMask = ^uint32(AlignMask)
)

// Free-block link field offsets relative to the block start. Valid only while
// the block is free; an allocated block's payload overlays them.
const (
	LinkNextOff = WordSize
	LinkPrevOff = 2 * WordSize
)
