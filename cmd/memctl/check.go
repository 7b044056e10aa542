package main

import (
	"github.com/spf13/cobra"

	"github.com/docquantum/basic-malloc/internal/trace"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay a trace with a full consistency sweep after every operation",
		Long: `The check command replays a trace and runs every structural invariant
check after each operation: sentinel integrity, boundary-tag agreement,
no adjacent free blocks, free-list ordering and symmetry, and byte
accounting. The first violation aborts the replay with a non-zero exit.

Example:
  memctl check traces/realloc.rep`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckTrace(args[0])
		},
	}
}

func runCheckTrace(path string) error {
	tr, err := trace.ParseFile(path)
	if err != nil {
		return err
	}
	res, err := replayTrace(tr, path, replayOptions{checkEach: true})
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(res)
	}
	printInfo("%s: %d ops, heap consistent throughout\n", res.Trace, res.Ops)
	return nil
}
