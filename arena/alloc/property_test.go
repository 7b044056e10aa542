package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_Random_AcquireReleaseResize_GuardInvariants performs random heap
// operations and runs the full consistency checker plus a payload integrity
// check after every step.
func Test_Random_AcquireReleaseResize_GuardInvariants(t *testing.T) {
	al := newTestHeap(t, nil)

	rng := rand.New(rand.NewSource(42)) // fixed seed for reproducibility
	live := make(map[Ref]int)           // ref -> payload size
	seeds := make(map[Ref]byte)

	fill := func(ref Ref, size int, seed byte) {
		p := payload(al, ref, size)
		for i := range p {
			p[i] = seed + byte(i)
		}
	}
	verify := func() {
		for ref, size := range live {
			seed := seeds[ref]
			for i, got := range payload(al, ref, size) {
				require.Equal(t, seed+byte(i), got,
					"payload of 0x%X corrupted at byte %d", ref, i)
			}
		}
	}
	pick := func() Ref {
		for ref := range live {
			return ref
		}
		return NoRef
	}

	for i := 0; i < 400; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0: // acquire
			size := 1 + rng.Intn(600)
			ref, err := al.Acquire(size)
			require.NoError(t, err, "step %d: acquire %d", i, size)
			seed := byte(rng.Intn(256))
			fill(ref, size, seed)
			live[ref] = size
			seeds[ref] = seed

		case op == 1: // release
			ref := pick()
			require.NoError(t, al.Release(ref), "step %d: release 0x%X", i, ref)
			delete(live, ref)
			delete(seeds, ref)

		default: // resize
			ref := pick()
			oldSize := live[ref]
			newSize := 1 + rng.Intn(600)
			got, err := al.Resize(ref, newSize)
			require.NoError(t, err, "step %d: resize 0x%X to %d", i, ref, newSize)
			// The surviving prefix keeps its pattern; bytes past it are
			// fresh and get restamped.
			keep := min(oldSize, newSize)
			seed := seeds[ref]
			delete(live, ref)
			delete(seeds, ref)
			for j, b := range payload(al, got, keep) {
				require.Equal(t, seed+byte(j), b,
					"step %d: resize lost byte %d of 0x%X", i, j, ref)
			}
			fill(got, newSize, seed)
			live[got] = newSize
			seeds[got] = seed
		}

		vs := al.Check(false)
		require.Empty(t, vs, "step %d: violations %v", i, vs)
		verify()
	}

	t.Logf("400 random operations completed, %d live allocations, region %d bytes",
		len(live), al.Arena().Size())

	// Drain everything; the heap must collapse back to a consistent state.
	for ref := range live {
		require.NoError(t, al.Release(ref))
	}
	requireClean(t, al)
}

// Test_Stress_AcquireReleaseCycles runs rapid full alloc/drain rounds.
func Test_Stress_AcquireReleaseCycles(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	al := newTestHeap(t, nil)
	rng := rand.New(rand.NewSource(12345))

	for round := 0; round < 20; round++ {
		var refs []Ref
		for n := 0; n < 50; n++ {
			size := 8 + rng.Intn(256)
			ref, err := al.Acquire(size)
			require.NoError(t, err, "round %d", round)
			refs = append(refs, ref)
		}
		// Free in a shuffled order to exercise every coalescing shape.
		rng.Shuffle(len(refs), func(i, j int) { refs[i], refs[j] = refs[j], refs[i] })
		for _, ref := range refs {
			require.NoError(t, al.Release(ref), "round %d", round)
		}
		requireClean(t, al)
	}

	// Demand-driven growth is bounded: after every round drained, one
	// more full-chunk request must not grow the region further.
	extends := al.Stats().ExtendCalls
	_, err := al.Acquire(2048)
	require.NoError(t, err)
	require.Equal(t, extends, al.Stats().ExtendCalls)
}
