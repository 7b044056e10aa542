package format

import "github.com/docquantum/basic-malloc/internal/buf"

// Boundary-tag codec. A block is self-describing: its header word at the
// block start and a bit-identical footer word in its last four bytes both
// encode (size, allocated). The footer exists so the physically previous
// block can be located in O(1) without a separate index.
//
// These are pure accessors over the region slice. They trust well-formed
// input and must not be pointed at the sentinels' payload area (sentinels
// have none).

// Pack encodes a block size and allocation flag into a tag word.
func Pack(size int, allocated bool) uint32 {
	tag := uint32(size) & SizeMask
	if allocated {
		tag |= AllocBit
	}
	return tag
}

// Unpack decodes a tag word into its size and allocation flag.
func Unpack(tag uint32) (size int, allocated bool) {
	return int(tag & SizeMask), tag&AllocBit != 0
}

// Header returns the raw header tag of the block at off.
func Header(b []byte, off int) uint32 {
	return buf.U32LE(b, off)
}

// Footer returns the raw footer tag of the block at off, located via the
// size declared in its own header.
func Footer(b []byte, off int) uint32 {
	return buf.U32LE(b, off+BlockSize(b, off)-WordSize)
}

// BlockSize returns the total size of the block at off, header and footer
// included.
func BlockSize(b []byte, off int) int {
	size, _ := Unpack(buf.U32LE(b, off))
	return size
}

// Allocated reports whether the block at off is tagged allocated.
func Allocated(b []byte, off int) bool {
	_, allocated := Unpack(buf.U32LE(b, off))
	return allocated
}

// PutTags writes the header and footer of the block at off in one step.
// Header and footer must always agree, so there is no way to write them
// separately.
func PutTags(b []byte, off, size int, allocated bool) {
	tag := Pack(size, allocated)
	buf.PutU32LE(b, off, tag)
	buf.PutU32LE(b, off+size-WordSize, tag)
}

// PutEpilogue writes an epilogue header at off: size zero, allocated.
// The epilogue has no footer.
func PutEpilogue(b []byte, off int) {
	buf.PutU32LE(b, off, Pack(0, true))
}

// NextBlock returns the offset of the physically next block.
func NextBlock(b []byte, off int) int {
	return off + BlockSize(b, off)
}

// PrevBlock returns the offset of the physically previous block, read from
// the footer word that sits immediately before off.
func PrevBlock(b []byte, off int) int {
	size, _ := Unpack(buf.U32LE(b, off-WordSize))
	return off - size
}

// PayloadOf returns the payload offset for the block at off.
func PayloadOf(off int) int { return off + WordSize }

// BlockOf returns the block offset for a payload offset.
func BlockOf(payload int) int { return payload - WordSize }

// PayloadSize returns the usable payload bytes of a block of the given total
// size (total minus header and footer).
func PayloadSize(size int) int { return size - 2*WordSize }

// LinkNext reads the forward free-list link of the free block at off.
func LinkNext(b []byte, off int) int {
	return int(buf.U32LE(b, off+LinkNextOff))
}

// LinkPrev reads the backward free-list link of the free block at off.
func LinkPrev(b []byte, off int) int {
	return int(buf.U32LE(b, off+LinkPrevOff))
}

// SetLinks writes both free-list links of the free block at off.
func SetLinks(b []byte, off, prev, next int) {
	buf.PutU32LE(b, off+LinkNextOff, uint32(next))
	buf.PutU32LE(b, off+LinkPrevOff, uint32(prev))
}

// SetLinkNext writes the forward free-list link of the free block at off.
func SetLinkNext(b []byte, off, next int) {
	buf.PutU32LE(b, off+LinkNextOff, uint32(next))
}

// SetLinkPrev writes the backward free-list link of the free block at off.
func SetLinkPrev(b []byte, off, prev int) {
	buf.PutU32LE(b, off+LinkPrevOff, uint32(prev))
}
