// Package match plays engine-versus-engine games on a shared board.
//
// Each side is a separate engine session configured for its own difficulty
// tier. The runner feeds the side to move the current position and waits
// for its reply; the session itself plays the move on the board because it
// only applies moves on its own turn.
package match

import (
	"context"
	"fmt"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/lgbarn/swapchess-go/internal/board"
	"github.com/lgbarn/swapchess-go/internal/config"
	"github.com/lgbarn/swapchess-go/internal/errors"
	"github.com/lgbarn/swapchess-go/internal/swap"
	"github.com/lgbarn/swapchess-go/internal/uci"
)

// DefaultMaxPlies ends a game that has not finished after this many half
// moves.
const DefaultMaxPlies = 300

// MethodPlyLimit is the Result.Method of a game cut off at MaxPlies.
const MethodPlyLimit = "PlyLimit"

// Pairing describes one game of a match.
type Pairing struct {
	Index    int
	White    config.Difficulty
	Black    config.Difficulty
	Swap     bool // Swap White's first move into Black's reply
	MaxPlies int  // Zero means DefaultMaxPlies
}

// Result is the record of one finished (or aborted) game.
type Result struct {
	Pairing    Pairing
	Moves      []string // Every move played, in coordinate notation
	SAN        []string // Moves played from the final start position, in SAN
	StartFEN   string
	SwappedFEN string // Position after the swap, if one happened
	FinalFEN   string
	Outcome    string // "1-0", "0-1", "1/2-1/2" or "*"
	Method     string
	Err        error
}

// Player is one side's engine session.
type Player interface {
	WaitReady(ctx context.Context) error
	SendPositionFrom(fen, moves string) error
	AwaitMove(ctx context.Context) (uci.Result, error)
	NewGame() error
	Close() error
}

// EngineFactory starts an engine that plays color on g at difficulty d.
type EngineFactory func(ctx context.Context, g *board.Game, color chess.Color, d config.Difficulty) (Player, error)

// ProcessFactory starts engine processes configured from base. Searches
// only start when the runner asks for them.
func ProcessFactory(base *config.Config, logger zerolog.Logger) EngineFactory {
	return func(ctx context.Context, g *board.Game, color chess.Color, d config.Difficulty) (Player, error) {
		cfg := base.Clone()
		cfg.Difficulty = d
		cfg.SearchOnReady = false
		e, err := uci.Start(ctx, g, color, cfg, uci.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// String returns a one line summary such as "#3 easy-hard 1-0 (Checkmate, 57 plies)".
func (r Result) String() string {
	s := fmt.Sprintf("#%d %s-%s", r.Pairing.Index, r.Pairing.White, r.Pairing.Black)
	if r.Pairing.Swap {
		s += " swap"
	}
	if r.Err != nil {
		return fmt.Sprintf("%s error: %v", s, r.Err)
	}
	return fmt.Sprintf("%s %s (%s, %d plies)", s, r.Outcome, r.Method, len(r.Moves))
}

// PlayGame plays one game to its end, the ply limit or the first error.
func PlayGame(ctx context.Context, p Pairing, factory EngineFactory) Result {
	g := board.New()
	res := Result{Pairing: p, StartFEN: g.StartFEN(), Outcome: string(chess.NoOutcome)}

	players := make(map[chess.Color]Player, 2)
	for _, side := range []struct {
		color chess.Color
		level config.Difficulty
	}{{chess.White, p.White}, {chess.Black, p.Black}} {
		pl, err := factory(ctx, g, side.color, side.level)
		if err != nil {
			res.Err = errors.Wrapf(err, "starting %s engine", board.ColorName(side.color))
			closeAll(players)
			return res
		}
		players[side.color] = pl
	}
	defer closeAll(players)

	for color, pl := range players {
		if err := pl.WaitReady(ctx); err != nil {
			res.Err = errors.Wrapf(err, "%s engine", board.ColorName(color))
			return res
		}
	}

	maxPlies := p.MaxPlies
	if maxPlies <= 0 {
		maxPlies = DefaultMaxPlies
	}

	for {
		if _, _, over := g.Outcome(); over {
			break
		}
		if len(res.Moves) >= maxPlies {
			res.Method = MethodPlyLimit
			break
		}

		color := g.TurnColor()
		pl := players[color]
		if err := sendPosition(pl, g); err != nil {
			res.Err = err
			break
		}
		r, err := pl.AwaitMove(ctx)
		if err != nil {
			res.Err = errors.Wrapf(err, "%s to move", board.ColorName(color))
			break
		}
		if !r.Applied {
			res.Err = errors.Wrapf(errors.ErrIllegalMove, "%s engine move %s was not played", board.ColorName(color), r.Move)
			break
		}
		res.Moves = append(res.Moves, r.Move)

		if p.Swap && len(res.Moves) == 1 {
			if err := swapOpening(g, players, &res); err != nil {
				res.Err = err
				break
			}
		}
	}

	res.FinalFEN = g.FEN()
	res.SAN = g.SANMoves()
	if outcome, method, over := g.Outcome(); over {
		res.Outcome, res.Method = outcome, method
	}
	return res
}

// swapOpening replaces the position after White's first move with Black's
// mirrored reply; White moves again from there.
func swapOpening(g *board.Game, players map[chess.Color]Player, res *Result) error {
	fen, err := swap.SwapWhiteFirstMove(g.CanonicalFEN())
	if err != nil {
		return err
	}
	if err := g.Reset(fen); err != nil {
		return err
	}
	res.SwappedFEN = fen
	for _, pl := range players {
		if err := pl.NewGame(); err != nil {
			return err
		}
	}
	return nil
}

func sendPosition(pl Player, g *board.Game) error {
	fen := g.StartFEN()
	if fen == board.InitialFEN {
		fen = ""
	}
	return pl.SendPositionFrom(fen, g.UCIMoves())
}

func closeAll(players map[chess.Color]Player) {
	for _, pl := range players {
		_ = pl.Close()
	}
}
