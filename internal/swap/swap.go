// Package swap translates between a position after White's first move and
// the position where Black mirrored that move instead (the SWAP opening).
//
// Both directions are plain lookups into tables built once from a single
// list of the 20 legal first moves, so the pair is a bijection by
// construction. Inputs outside the table are rejected; nothing is parsed.
package swap

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/lgbarn/swapchess-go/internal/errors"
)

var (
	forward map[string]string
	inverse map[string]string
	names   map[string]string
)

func init() {
	forward = make(map[string]string, len(openings))
	inverse = make(map[string]string, len(openings))
	names = make(map[string]string, len(openings))

	for _, o := range openings {
		if _, dup := forward[o.firstMove]; dup {
			panic(fmt.Sprintf("swap: duplicate first-move FEN for %s", o.name))
		}
		if _, dup := inverse[o.swapped]; dup {
			panic(fmt.Sprintf("swap: duplicate swapped FEN for %s", o.name))
		}
		forward[o.firstMove] = o.swapped
		inverse[o.swapped] = o.firstMove
		names[o.firstMove] = o.name
	}
}

// SwapWhiteFirstMove returns the position after Black's mirrored reply for a
// position reached by White's first move.
func SwapWhiteFirstMove(fen string) (string, error) {
	swapped, ok := forward[fen]
	if !ok {
		return "", &errors.PositionError{Err: errors.ErrNotFirstMove, Op: "swap", FEN: fen}
	}
	return swapped, nil
}

// UndoSwapMove returns the position after White's first move that a swapped
// position was derived from.
func UndoSwapMove(fen string) (string, error) {
	original, ok := inverse[fen]
	if !ok {
		return "", &errors.PositionError{Err: errors.ErrNotSwapMove, Op: "undo swap", FEN: fen}
	}
	return original, nil
}

// MoveName returns White's first move in SAN ("e4", "Nf3") for a
// first-move position.
func MoveName(fen string) (string, bool) {
	name, ok := names[fen]
	return name, ok
}

// FirstMoves returns every position SwapWhiteFirstMove accepts, sorted.
func FirstMoves() []string {
	keys := maps.Keys(forward)
	slices.Sort(keys)
	return keys
}

// SwappedMoves returns every position UndoSwapMove accepts, sorted.
func SwappedMoves() []string {
	keys := maps.Keys(inverse)
	slices.Sort(keys)
	return keys
}

// Len returns the number of openings in the table.
func Len() int {
	return len(forward)
}

// Opening is one row of the table.
type Opening struct {
	Name      string // White's first move in SAN
	FirstMove string // Position after White's first move
	Swapped   string // Position after Black's mirrored reply
}

// Openings returns the table rows, pawn moves first, in file order.
func Openings() []Opening {
	out := make([]Opening, len(openings))
	for i, o := range openings {
		out[i] = Opening{Name: o.name, FirstMove: o.firstMove, Swapped: o.swapped}
	}
	return out
}
