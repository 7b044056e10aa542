package alloc

import (
	"math/rand"
	"testing"
)

// Benchmarks run against a slice store; numbers are dominated by the
// first-fit scan and coalescing, not by the store.

func BenchmarkAcquireRelease(b *testing.B) {
	al, err := NewWithStore(nil)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		ref, err := al.Acquire(128)
		if err != nil {
			b.Fatal(err)
		}
		if err := al.Release(ref); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAcquireChurn(b *testing.B) {
	al, err := NewWithStore(nil)
	if err != nil {
		b.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))
	var live []Ref
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if len(live) > 64 {
			i := rng.Intn(len(live))
			if err := al.Release(live[i]); err != nil {
				b.Fatal(err)
			}
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		ref, err := al.Acquire(16 + rng.Intn(512))
		if err != nil {
			b.Fatal(err)
		}
		live = append(live, ref)
	}
}

func BenchmarkResizeInPlace(b *testing.B) {
	al, err := NewWithStore(nil)
	if err != nil {
		b.Fatal(err)
	}
	ref, err := al.Acquire(64)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		size := 64
		if i%2 == 1 {
			size = 256
		}
		if ref, err = al.Resize(ref, size); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCheck(b *testing.B) {
	al, err := NewWithStore(nil)
	if err != nil {
		b.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))
	var live []Ref
	for n := 0; n < 200; n++ {
		ref, err := al.Acquire(16 + rng.Intn(256))
		if err != nil {
			b.Fatal(err)
		}
		live = append(live, ref)
	}
	for i, ref := range live {
		if i%2 == 0 {
			if err := al.Release(ref); err != nil {
				b.Fatal(err)
			}
		}
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if vs := al.Check(false); len(vs) > 0 {
			b.Fatalf("violations: %v", vs)
		}
	}
}
