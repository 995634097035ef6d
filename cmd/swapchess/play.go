package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/lgbarn/swapchess-go/internal/board"
	"github.com/lgbarn/swapchess-go/internal/config"
	pgerrors "github.com/lgbarn/swapchess-go/internal/errors"
	"github.com/lgbarn/swapchess-go/internal/match"
	"github.com/lgbarn/swapchess-go/internal/swap"
	"github.com/lgbarn/swapchess-go/internal/uci"
)

// maxSearchRetries is how many timed out searches in a row the engine gets
// before the game is abandoned.
const maxSearchRetries = 3

// game is an interactive game between a person and one engine.
type game struct {
	board  *board.Game
	engine match.Player
	color  chess.Color // the engine's side
	swap   bool
	log    zerolog.Logger
	out    io.Writer

	searching bool // a search for the current position is already running
	swapped   bool
	timeouts  int // consecutive timed out searches
}

// runPlay starts the engine and plays against moves read from in.
func runPlay(ctx context.Context, cfg *config.Config, color chess.Color, logger zerolog.Logger, in io.Reader, out io.Writer) error {
	b := board.New()
	eng, err := uci.Start(ctx, b, color, cfg, uci.WithLogger(logger))
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck // session is over

	g := &game{
		board:     b,
		engine:    eng,
		color:     color,
		swap:      *swapOpening,
		log:       logger,
		out:       out,
		searching: cfg.SearchOnReady,
	}
	return g.play(ctx, readLines(in))
}

// readLines delivers the lines of r until EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return lines
}

func (g *game) play(ctx context.Context, input <-chan string) error {
	if err := g.engine.WaitReady(ctx); err != nil {
		return err
	}
	fmt.Fprintf(g.out, "You play %s. Enter moves like e2e4; \"fen\", \"moves\" or \"quit\".\n",
		board.ColorName(g.color.Other()))

	for {
		if result, method, over := g.board.Outcome(); over {
			fmt.Fprintf(g.out, "%s\nGame over: %s (%s)\n", g.board.Draw(), result, method)
			return nil
		}

		if g.board.TurnColor() == g.color {
			if err := g.engineMove(ctx); err != nil {
				return err
			}
			continue
		}

		fmt.Fprint(g.out, g.board.Draw())
		fmt.Fprintf(g.out, "%s> ", board.ColorName(g.board.TurnColor()))
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-input:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}

		done, err := g.command(line)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// command handles one line of user input. done reports a request to quit.
func (g *game) command(line string) (done bool, err error) {
	switch line {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "fen":
		fmt.Fprintln(g.out, g.board.FEN())
		return false, nil
	case "moves":
		fmt.Fprintln(g.out, g.board.UCIMoves())
		return false, nil
	}

	if err := g.board.MoveUCI(line); err != nil {
		fmt.Fprintf(g.out, "Illegal move %q: %v\n", line, err)
		return false, nil
	}
	g.searching = false
	return false, g.afterMove()
}

func (g *game) engineMove(ctx context.Context) error {
	if !g.searching {
		fen := g.board.StartFEN()
		if fen == board.InitialFEN {
			fen = ""
		}
		if err := g.engine.SendPositionFrom(fen, g.board.UCIMoves()); err != nil {
			return err
		}
	}
	g.searching = false

	res, err := g.engine.AwaitMove(ctx)
	switch {
	case errors.Is(err, pgerrors.ErrSearchTimeout):
		g.timeouts++
		if g.timeouts > maxSearchRetries {
			return pgerrors.Wrapf(err, "engine silent after %d attempts", g.timeouts)
		}
		g.log.Warn().Err(err).Int("attempt", g.timeouts).Msg("engine did not answer, asking again")
		return nil
	case err != nil:
		return err
	case !res.Applied:
		return pgerrors.Wrapf(pgerrors.ErrIllegalMove, "engine move %s was not played", res.Move)
	}

	g.timeouts = 0
	fmt.Fprintf(g.out, "Engine plays %s\n", res.Move)
	return g.afterMove()
}

// afterMove applies the swap once White has made the first move.
func (g *game) afterMove() error {
	if !g.swap || g.swapped || g.board.Ply() != 1 || g.board.StartFEN() != board.InitialFEN {
		return nil
	}
	first := g.board.CanonicalFEN()
	fen, err := swap.SwapWhiteFirstMove(first)
	if err != nil {
		return err
	}
	if err := g.board.Reset(fen); err != nil {
		return err
	}
	g.swapped = true
	name, _ := swap.MoveName(first)
	fmt.Fprintf(g.out, "Swapped: %s becomes Black's reply, White to move\n", name)
	return g.engine.NewGame()
}
