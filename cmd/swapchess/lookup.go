package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lgbarn/swapchess-go/internal/swap"
)

// runLookup handles -swap, -undo and -list and returns the exit code.
func runLookup(stdout, stderr io.Writer, swapArg, undoArg string, list bool) int {
	if list {
		printOpenings(stdout)
		return 0
	}

	var (
		fen string
		err error
	)
	if swapArg != "" {
		fen, err = swap.SwapWhiteFirstMove(swapArg)
	} else {
		fen, err = swap.UndoSwapMove(undoArg)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, fen)
	return 0
}

// printOpenings writes the swap table as aligned columns.
func printOpenings(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MOVE\tAFTER WHITE'S MOVE\tSWAPPED")
	for _, o := range swap.Openings() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Name, o.FirstMove, o.Swapped)
	}
	tw.Flush() //nolint:errcheck,gosec // G104: output errors surface on the next write
}
