// Package board provides the game board the engine adapter plays on.
// It wraps github.com/notnil/chess with a mutex so the engine's message
// loop and a human input loop can share one game.
package board

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notnil/chess"

	"github.com/lgbarn/swapchess-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Game is a concurrency-safe chess game.
type Game struct {
	mu       sync.Mutex
	game     *chess.Game
	startFEN string
}

// New creates a game at the initial position.
func New() *Game {
	return &Game{game: chess.NewGame(), startFEN: InitialFEN}
}

// NewFromFEN creates a game starting from fen.
func NewFromFEN(fen string) (*Game, error) {
	g, err := loadFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{game: g, startFEN: fen}, nil
}

func loadFEN(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, &errors.PositionError{Err: errors.Wrap(errors.ErrInvalidFEN, err.Error()), Op: "load", FEN: fen}
	}
	return chess.NewGame(opt), nil
}

// Reset discards the move history and starts again from fen.
func (g *Game) Reset(fen string) error {
	ng, err := loadFEN(fen)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.game = ng
	g.startFEN = fen
	return nil
}

// TurnColor returns the side to move.
func (g *Game) TurnColor() chess.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.game.Position().Turn()
}

// Move plays the legal move from one square to another. An empty promotion
// promotes to a queen, which is what a board UI does without asking.
func (g *Game) Move(from, to, promotion string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.game.Outcome() != chess.NoOutcome {
		return errors.Wrapf(errors.ErrIllegalMove, "%s%s%s after game end", from, to, promotion)
	}

	var fallback *chess.Move
	for _, m := range g.game.ValidMoves() {
		if m.S1().String() != from || m.S2().String() != to {
			continue
		}
		promo := m.Promo().String()
		if promo == strings.ToLower(promotion) {
			return g.game.Move(m)
		}
		if promotion == "" && promo == chess.Queen.String() {
			fallback = m
		}
	}
	if fallback != nil {
		return g.game.Move(fallback)
	}
	return errors.Wrapf(errors.ErrIllegalMove, "%s%s%s in %s", from, to, promotion, g.game.Position().String())
}

// MoveUCI plays a move in coordinate notation ("e2e4", "e7e8q").
func (g *Game) MoveUCI(text string) error {
	text = strings.TrimSpace(text)
	if len(text) != 4 && len(text) != 5 {
		return errors.Wrapf(errors.ErrMalformedMove, "%q", text)
	}
	return g.Move(text[0:2], text[2:4], text[4:])
}

// UCIMoves returns the moves played since the start position, space separated.
func (g *Game) UCIMoves() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	moves := g.game.Moves()
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// SANMoves returns the moves played since the start position in standard
// algebraic notation ("e4", "Nf3", "Qh4#").
func (g *Game) SANMoves() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	positions := g.game.Positions()
	moves := g.game.Moves()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}
	return out
}

// Ply returns the number of half moves played since the start position.
func (g *Game) Ply() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.game.Moves())
}

// StartFEN returns the position the move history starts from.
func (g *Game) StartFEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.startFEN
}

// FEN returns the current position as the underlying library writes it.
func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.game.Position().String()
}

// CanonicalFEN returns the current position with the en passant field only
// set when an en passant capture is legal.
func (g *Game) CanonicalFEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	fields := strings.Fields(g.game.Position().String())
	if len(fields) < 4 || fields[3] == "-" {
		return strings.Join(fields, " ")
	}
	for _, m := range g.game.ValidMoves() {
		if m.HasTag(chess.EnPassant) {
			return strings.Join(fields, " ")
		}
	}
	fields[3] = "-"
	return strings.Join(fields, " ")
}

// Outcome reports the result ("1-0", "0-1", "1/2-1/2") and how the game
// ended. over is false while the game is in progress.
func (g *Game) Outcome() (result, method string, over bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	outcome := g.game.Outcome()
	if outcome == chess.NoOutcome {
		return string(outcome), "", false
	}
	return string(outcome), g.game.Method().String(), true
}

// Draw renders the board as text, White at the bottom.
func (g *Game) Draw() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.game.Position().Board().Draw()
}

// String implements fmt.Stringer.
func (g *Game) String() string {
	return fmt.Sprintf("%s [%s]", g.FEN(), g.UCIMoves())
}

// ColorName returns "white" or "black".
func ColorName(c chess.Color) string {
	return strings.ToLower(c.Name())
}

// ParseColor converts "white"/"w" or "black"/"b" to a chess.Color.
func ParseColor(s string) (chess.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return chess.White, nil
	case "black", "b":
		return chess.Black, nil
	}
	return chess.NoColor, fmt.Errorf("unknown color %q", s)
}
