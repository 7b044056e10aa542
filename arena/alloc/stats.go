package alloc

// Stats holds internal allocator counters, for tests and instrumentation.
type Stats struct {
	AcquireCalls int // Total Acquire() calls
	ReleaseCalls int // Total Release() calls
	ResizeCalls  int // Total Resize() calls

	ExtendCalls int   // Region growth operations
	ExtendBytes int64 // Total bytes added by growth

	BytesAllocated int64 // Total bytes handed out (block sizes, overhead included)
	BytesFreed     int64 // Total bytes returned

	Splits           int // Placement and resize splits
	CoalesceForward  int // Merges with the physically next block
	CoalesceBackward int // Merges with the physically previous block

	InPlaceGrows int // Resizes satisfied by absorbing the next block
	Relocations  int // Resizes that had to move and copy

	MisuseReports int // Diagnostics for bad handles (no-op each time)
}

// Stats returns a copy of the current counters.
func (al *Allocator) Stats() Stats {
	return al.stats
}
