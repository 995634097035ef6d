package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestSentinelErrors_Are verifies that sentinel errors are properly defined
// and can be checked with errors.Is()
func TestSentinelErrors_Are(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"ErrInvalidFEN", ErrInvalidFEN, ErrInvalidFEN},
		{"ErrNotFirstMove", ErrNotFirstMove, ErrNotFirstMove},
		{"ErrNotSwapMove", ErrNotSwapMove, ErrNotSwapMove},
		{"ErrIllegalMove", ErrIllegalMove, ErrIllegalMove},
		{"ErrMalformedMove", ErrMalformedMove, ErrMalformedMove},
		{"ErrInvalidConfig", ErrInvalidConfig, ErrInvalidConfig},
		{"ErrSearchTimeout", ErrSearchTimeout, ErrSearchTimeout},
		{"ErrNoMove", ErrNoMove, ErrNoMove},
		{"ErrEngineClosed", ErrEngineClosed, ErrEngineClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}
}

// TestSwapSentinels_AreInvalidFEN verifies both swap-table failures are FEN failures
func TestSwapSentinels_AreInvalidFEN(t *testing.T) {
	if !errors.Is(ErrNotFirstMove, ErrInvalidFEN) {
		t.Error("errors.Is(ErrNotFirstMove, ErrInvalidFEN) = false, want true")
	}
	if !errors.Is(ErrNotSwapMove, ErrInvalidFEN) {
		t.Error("errors.Is(ErrNotSwapMove, ErrInvalidFEN) = false, want true")
	}
	if errors.Is(ErrNotFirstMove, ErrNotSwapMove) {
		t.Error("ErrNotFirstMove should not match ErrNotSwapMove")
	}
}

func TestPositionError_Error(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	err := &PositionError{Err: ErrNotFirstMove, Op: "swap", FEN: fen}

	msg := err.Error()
	for _, s := range []string{"cannot swap", "non-first-move FEN", fen} {
		if !containsIgnoreCase(msg, s) {
			t.Errorf("PositionError.Error() = %q, should contain %q", msg, s)
		}
	}
}

func TestPositionError_As(t *testing.T) {
	posErr := &PositionError{Err: ErrNotSwapMove, Op: "undo swap", FEN: "8/8/8/8/8/8/8/8 w - - 0 1"}
	wrapped := fmt.Errorf("resetting board: %w", posErr)

	var extracted *PositionError
	if !errors.As(wrapped, &extracted) {
		t.Fatal("errors.As() could not extract PositionError")
	}
	if extracted.Op != "undo swap" {
		t.Errorf("extracted.Op = %q, want %q", extracted.Op, "undo swap")
	}
	if !errors.Is(wrapped, ErrInvalidFEN) {
		t.Error("errors.Is(wrapped, ErrInvalidFEN) = false, want true")
	}
}

func TestEngineError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *EngineError
		contains []string
	}{
		{
			name: "full context",
			err: &EngineError{
				Err:     ErrSearchTimeout,
				Op:      "search",
				Session: "abc123",
				Line:    "go movetime 2000",
			},
			contains: []string{"engine abc123", "search", "go movetime 2000", "timed out"},
		},
		{
			name:     "minimal context",
			err:      &EngineError{Err: ErrEngineClosed},
			contains: []string{"engine", "closed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsIgnoreCase(msg, s) {
					t.Errorf("EngineError.Error() = %q, should contain %q", msg, s)
				}
			}
		})
	}
}

func TestEngineError_Unwrap(t *testing.T) {
	engErr := &EngineError{Err: ErrSearchTimeout, Op: "search"}

	if !errors.Is(engErr, ErrSearchTimeout) {
		t.Error("errors.Is(engErr, ErrSearchTimeout) = false, want true")
	}
	if errors.Unwrap(engErr) != ErrSearchTimeout {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(engErr), ErrSearchTimeout)
	}
}

// TestWrap verifies the Wrap helper function
func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrInvalidFEN, "resetting board")

	if !errors.Is(wrapped, ErrInvalidFEN) {
		t.Error("Wrap should preserve the underlying error")
	}
	if !containsIgnoreCase(wrapped.Error(), "resetting board") {
		t.Errorf("Wrap should include context, got %q", wrapped.Error())
	}
	if Wrap(nil, "ignored") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

// TestWrapf verifies the Wrapf helper function
func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrIllegalMove, "move %s at ply %d", "e2e5", 1)

	if !errors.Is(wrapped, ErrIllegalMove) {
		t.Error("Wrapf should preserve the underlying error")
	}
	if !containsIgnoreCase(wrapped.Error(), "move e2e5 at ply 1") {
		t.Errorf("Wrapf should include formatted context, got %q", wrapped.Error())
	}
}

// containsIgnoreCase checks if s contains substr (case-insensitive).
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
