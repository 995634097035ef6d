package board

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/notnil/chess"

	pgerrors "github.com/lgbarn/swapchess-go/internal/errors"
	"github.com/lgbarn/swapchess-go/internal/testutil"
)

func TestNew_InitialPosition(t *testing.T) {
	g := New()

	testutil.AssertEqual(t, g.FEN(), InitialFEN)
	testutil.AssertEqual(t, g.StartFEN(), InitialFEN)
	testutil.AssertEqual(t, g.TurnColor(), chess.White)
	testutil.AssertEqual(t, g.UCIMoves(), "")
	testutil.AssertEqual(t, g.Ply(), 0)
}

func TestMove_AppliesAndFlipsTurn(t *testing.T) {
	g := New()

	testutil.AssertNoError(t, g.Move("e2", "e4", ""))
	testutil.AssertEqual(t, g.TurnColor(), chess.Black)
	testutil.AssertNoError(t, g.MoveUCI("e7e5"))
	testutil.AssertEqual(t, g.TurnColor(), chess.White)
	testutil.AssertEqual(t, g.UCIMoves(), "e2e4 e7e5")
	testutil.AssertEqual(t, g.Ply(), 2)
}

func TestMove_Illegal(t *testing.T) {
	tests := []struct {
		name     string
		move     string
		sentinel error
	}{
		{"pawn three squares", "e2e5", pgerrors.ErrIllegalMove},
		{"black piece on white turn", "e7e5", pgerrors.ErrIllegalMove},
		{"empty square", "e4e5", pgerrors.ErrIllegalMove},
		{"too short", "e2e", pgerrors.ErrMalformedMove},
		{"too long", "e2e4qq", pgerrors.ErrMalformedMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			err := g.MoveUCI(tt.move)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("MoveUCI(%q) error = %v, want %v", tt.move, err, tt.sentinel)
			}
			testutil.AssertEqual(t, g.Ply(), 0, "board must be unchanged")
		})
	}
}

func TestMove_Promotion(t *testing.T) {
	const fen = "8/P7/8/8/8/8/8/k6K w - - 0 1"

	g, err := NewFromFEN(fen)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, g.MoveUCI("a7a8n"))
	testutil.AssertContains(t, g.FEN(), "N7/")

	g, err = NewFromFEN(fen)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, g.Move("a7", "a8", ""))
	testutil.AssertContains(t, g.FEN(), "Q7/")
}

func TestCanonicalFEN_DropsUnusableEnPassant(t *testing.T) {
	g := New()
	testutil.AssertNoError(t, g.MoveUCI("e2e4"))

	testutil.AssertEqual(t, g.CanonicalFEN(),
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
}

func TestCanonicalFEN_KeepsCapturableEnPassant(t *testing.T) {
	g := New()
	for _, m := range []string{"e2e4", "a7a6", "e4e5", "d7d5"} {
		testutil.AssertNoError(t, g.MoveUCI(m), m)
	}

	fields := strings.Fields(g.CanonicalFEN())
	testutil.AssertEqual(t, fields[3], "d6")
}

func TestReset(t *testing.T) {
	const swapped = "rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 2"

	g := New()
	testutil.AssertNoError(t, g.MoveUCI("e2e4"))
	testutil.AssertNoError(t, g.Reset(swapped))

	testutil.AssertEqual(t, g.StartFEN(), swapped)
	testutil.AssertEqual(t, g.UCIMoves(), "")
	testutil.AssertEqual(t, g.TurnColor(), chess.White)
	testutil.AssertNoError(t, g.MoveUCI("d2d4"))
	testutil.AssertEqual(t, g.UCIMoves(), "d2d4")
}

func TestReset_InvalidFEN(t *testing.T) {
	g := New()
	err := g.Reset("not a fen")
	if !errors.Is(err, pgerrors.ErrInvalidFEN) {
		t.Errorf("Reset() error = %v, want ErrInvalidFEN", err)
	}
	testutil.AssertEqual(t, g.FEN(), InitialFEN, "failed reset must keep the game")
}

func TestOutcome_Checkmate(t *testing.T) {
	g := New()
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		testutil.AssertNoError(t, g.MoveUCI(m), m)
	}

	result, method, over := g.Outcome()
	testutil.AssertTrue(t, over)
	testutil.AssertEqual(t, result, "0-1")
	testutil.AssertEqual(t, method, "Checkmate")

	err := g.MoveUCI("a2a3")
	if !errors.Is(err, pgerrors.ErrIllegalMove) {
		t.Errorf("move after mate error = %v, want ErrIllegalMove", err)
	}
}

func TestOutcome_InProgress(t *testing.T) {
	result, method, over := New().Outcome()
	testutil.AssertFalse(t, over)
	testutil.AssertEqual(t, result, "*")
	testutil.AssertEqual(t, method, "")
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    chess.Color
		wantErr bool
	}{
		{"white", chess.White, false},
		{"W", chess.White, false},
		{"black", chess.Black, false},
		{" b ", chess.Black, false},
		{"red", chess.NoColor, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	testutil.AssertEqual(t, ColorName(chess.Black), "black")
}

func TestGame_ConcurrentAccess(t *testing.T) {
	g := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.TurnColor()
			_ = g.CanonicalFEN()
			_ = g.UCIMoves()
		}()
	}
	testutil.AssertNoError(t, g.MoveUCI("g1f3"))
	wg.Wait()
	testutil.AssertEqual(t, g.TurnColor(), chess.Black)
}

func TestSANMoves(t *testing.T) {
	tests := []struct {
		name  string
		start string
		moves []string
		want  []string
	}{
		{"fool's mate", InitialFEN, []string{"f2f3", "e7e5", "g2g4", "d8h4"}, []string{"f3", "e5", "g4", "Qh4#"}},
		{"castling", InitialFEN, []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5", "e1g1"}, []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "O-O"}},
		{"from swapped position", "rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 2", []string{"d2d4", "e5d4"}, []string{"d4", "exd4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewFromFEN(tt.start)
			testutil.AssertNoError(t, err)
			for _, m := range tt.moves {
				testutil.AssertNoError(t, g.MoveUCI(m), m)
			}
			testutil.AssertEqual(t, g.SANMoves(), tt.want)
		})
	}
}
