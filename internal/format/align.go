package format

// Align returns n rounded up to the next double-word boundary.
//
// Example:
//
//	Align(1)  = 8
//	Align(8)  = 8
//	Align(9)  = 16
func Align(n int) int {
	return (n + AlignMask) & ^AlignMask
}

// BlockSizeFor returns the rounded block size for a payload request of n
// bytes: payload plus header and footer, double-word aligned, never below
// MinBlockSize.
func BlockSizeFor(n int) int {
	size := Align(n + 2*WordSize)
	if size < MinBlockSize {
		size = MinBlockSize
	}
	return size
}
