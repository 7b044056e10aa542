package alloc

// Ref is a block handle: the uint32 offset of the block's payload within the
// managed region. Handles are offsets rather than pointers so they stay valid
// across region growth and are never aliased by free-list bookkeeping.
type Ref = uint32

// NoRef is the nil handle. Offset 0 is the region's padding word and can
// never be a payload.
const NoRef Ref = 0

// Heap is the public operation set of an allocator instance. It is what the
// trace replay harness programs against.
type Heap interface {
	// Acquire returns a handle to a block with at least size payload
	// bytes, or an error on bad size or exhaustion.
	Acquire(size int) (Ref, error)

	// Release frees a previously acquired handle. Misuse (nil, double
	// release, foreign handle) is reported and treated as a no-op.
	Release(ref Ref) error

	// Resize grows or shrinks the block behind ref to newSize payload
	// bytes, in place when possible. Resize(NoRef, n) acquires;
	// Resize(ref, 0) releases and returns NoRef.
	Resize(ref Ref, newSize int) (Ref, error)

	// Check runs the consistency checker and returns every violation
	// found. Diagnostic only; never mutates.
	Check(verbose bool) []Violation
}
