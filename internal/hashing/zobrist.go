package hashing

import (
	"math/rand"

	"github.com/notnil/chess"
)

// zobristSeed fixes the key table so hashes are stable between runs.
const zobristSeed = 0x5eed

type zobristKeys struct {
	pieces   [12][64]uint64
	castling [4]uint64
	epFile   [8]uint64
	turn     uint64
}

var zobrist = newZobristKeys(zobristSeed)

func newZobristKeys(seed int64) *zobristKeys {
	r := rand.New(rand.NewSource(seed)) //nolint:gosec // G404: hash keys, not secrets
	k := &zobristKeys{}
	for p := range k.pieces {
		for sq := range k.pieces[p] {
			k.pieces[p][sq] = r.Uint64()
		}
	}
	for i := range k.castling {
		k.castling[i] = r.Uint64()
	}
	for i := range k.epFile {
		k.epFile[i] = r.Uint64()
	}
	k.turn = r.Uint64()
	return k
}

var castlings = []struct {
	color chess.Color
	side  chess.Side
}{
	{chess.White, chess.KingSide},
	{chess.White, chess.QueenSide},
	{chess.Black, chess.KingSide},
	{chess.Black, chess.QueenSide},
}

// GenerateZobristHash returns the Zobrist hash of pos. Move counters do not
// take part, so transpositions hash alike.
func GenerateZobristHash(pos *chess.Position) uint64 {
	var h uint64
	for sq, p := range pos.Board().SquareMap() {
		if p == chess.NoPiece {
			continue
		}
		h ^= zobrist.pieces[int(p)-1][int(sq)]
	}
	if pos.Turn() == chess.Black {
		h ^= zobrist.turn
	}
	cr := pos.CastleRights()
	for i, c := range castlings {
		if cr.CanCastle(c.color, c.side) {
			h ^= zobrist.castling[i]
		}
	}
	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		h ^= zobrist.epFile[int(ep.File())]
	}
	return h
}

// WeakHash packs the piece counts of pos into a material signature.
// Each of the twelve piece kinds gets four bits.
func WeakHash(pos *chess.Position) uint64 {
	var counts [12]uint64
	for _, p := range pos.Board().SquareMap() {
		if p != chess.NoPiece {
			counts[int(p)-1]++
		}
	}
	var h uint64
	for i, n := range counts {
		if n > 15 {
			n = 15
		}
		h |= n << (4 * uint(i))
	}
	return h
}

// positionFromFEN decodes fen into a position.
func positionFromFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, err
	}
	return chess.NewGame(opt).Position(), nil
}
