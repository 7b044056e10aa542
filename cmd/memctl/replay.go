package main

import (
	"fmt"

	"github.com/docquantum/basic-malloc/arena"
	"github.com/docquantum/basic-malloc/arena/alloc"
	"github.com/docquantum/basic-malloc/internal/trace"
)

// replayResult summarizes one trace run against a fresh heap.
type replayResult struct {
	Trace       string      `json:"trace"`
	Ops         int         `json:"ops"`
	PeakLive    int64       `json:"peak_live_bytes"`
	FinalRegion int         `json:"final_region_bytes"`
	Utilization float64     `json:"utilization"`
	Stats       alloc.Stats `json:"stats"`
}

// replayOptions controls how a trace is replayed.
type replayOptions struct {
	chunkSize int
	useMmap   bool
	checkEach bool // run the consistency checker after every operation
}

// replayTrace drives a fresh allocator through tr. Utilization is peak live
// payload bytes over the final region size, the classic space-efficiency
// score for a trace run.
func replayTrace(tr *trace.Trace, name string, opts replayOptions) (*replayResult, error) {
	cfg := alloc.DefaultConfig
	if opts.chunkSize > 0 {
		cfg.ChunkSize = opts.chunkSize
	}

	var (
		al  *alloc.Allocator
		err error
	)
	if opts.useMmap {
		var st *arena.MmapStore
		st, err = arena.NewMmapStore(cfg.StoreCap)
		if err != nil {
			return nil, fmt.Errorf("mmap store: %w", err)
		}
		defer st.Close()
		var ar *arena.Arena
		ar, err = arena.New(st)
		if err != nil {
			return nil, err
		}
		al, err = alloc.New(ar, &cfg)
	} else {
		al, err = alloc.NewWithStore(&cfg)
	}
	if err != nil {
		return nil, err
	}

	slots := make([]alloc.Ref, tr.Slots)
	sizes := make([]int, tr.Slots)
	var live, peak int64

	for i, op := range tr.Ops {
		switch op.Kind {
		case trace.OpAcquire:
			if slots[op.ID] != alloc.NoRef {
				return nil, fmt.Errorf("op %d: slot %d already live", i, op.ID)
			}
			ref, err := al.Acquire(op.Size)
			if err != nil {
				return nil, fmt.Errorf("op %d: acquire %d: %w", i, op.Size, err)
			}
			slots[op.ID] = ref
			sizes[op.ID] = op.Size
			live += int64(op.Size)

		case trace.OpResize:
			ref, err := al.Resize(slots[op.ID], op.Size)
			if err != nil {
				return nil, fmt.Errorf("op %d: resize slot %d to %d: %w", i, op.ID, op.Size, err)
			}
			live += int64(op.Size - sizes[op.ID])
			slots[op.ID] = ref
			sizes[op.ID] = op.Size

		case trace.OpRelease:
			if err := al.Release(slots[op.ID]); err != nil {
				return nil, fmt.Errorf("op %d: release slot %d: %w", i, op.ID, err)
			}
			live -= int64(sizes[op.ID])
			slots[op.ID] = alloc.NoRef
			sizes[op.ID] = 0
		}
		if live > peak {
			peak = live
		}

		if opts.checkEach {
			if vs := al.Check(false); len(vs) > 0 {
				return nil, fmt.Errorf("op %d: heap inconsistent: %v", i, vs)
			}
		}
	}

	if vs := al.Check(false); len(vs) > 0 {
		return nil, fmt.Errorf("final heap inconsistent: %v", vs)
	}

	res := &replayResult{
		Trace:       name,
		Ops:         len(tr.Ops),
		PeakLive:    peak,
		FinalRegion: al.Arena().Size(),
		Stats:       al.Stats(),
	}
	if res.FinalRegion > 0 {
		res.Utilization = float64(peak) / float64(res.FinalRegion)
	}
	return res, nil
}
