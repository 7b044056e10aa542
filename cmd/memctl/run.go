package main

import (
	"github.com/spf13/cobra"

	"github.com/docquantum/basic-malloc/internal/trace"
)

var (
	runCheck bool
	runChunk int
	runMmap  bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runCheck, "check", false, "Run the consistency checker after every operation")
	cmd.Flags().IntVar(&runChunk, "chunk", 0, "Region growth granularity in bytes (default 4096)")
	cmd.Flags().BoolVar(&runMmap, "mmap", false, "Back the heap with an anonymous mapping instead of a Go slice")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <trace>...",
		Short: "Replay allocation traces against a fresh heap",
		Long: `The run command replays one or more allocation traces, each against
its own fresh heap, and reports operation counts, peak utilization, and
allocator statistics.

Utilization is peak live payload bytes divided by the final region size.

Example:
  memctl run traces/binary.rep
  memctl run --check --chunk 8192 traces/*.rep
  memctl run --json traces/coalescing.rep`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
}

func runRun(args []string) error {
	opts := replayOptions{
		chunkSize: runChunk,
		useMmap:   runMmap,
		checkEach: runCheck,
	}

	var results []*replayResult
	var firstErr error
	for _, path := range args {
		printVerbose("Replaying %s...\n", path)
		tr, err := trace.ParseFile(path)
		if err != nil {
			printError("%s: %v\n", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		res, err := replayTrace(tr, path, opts)
		if err != nil {
			printError("%s: %v\n", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, res)
	}

	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
		return firstErr
	}

	for _, res := range results {
		printInfo("%s\n", res.Trace)
		printInfo("  ops:          %d\n", res.Ops)
		printInfo("  peak live:    %d bytes\n", res.PeakLive)
		printInfo("  final region: %d bytes\n", res.FinalRegion)
		printInfo("  utilization:  %.1f%%\n", res.Utilization*100)
		printVerbose("  extends: %d (%d bytes), splits: %d, coalesces: %d fwd / %d bwd, relocations: %d\n",
			res.Stats.ExtendCalls, res.Stats.ExtendBytes, res.Stats.Splits,
			res.Stats.CoalesceForward, res.Stats.CoalesceBackward, res.Stats.Relocations)
	}
	return firstErr
}
