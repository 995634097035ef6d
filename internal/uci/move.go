package uci

import (
	"strings"

	"github.com/lgbarn/swapchess-go/internal/errors"
)

// Move is an engine move in coordinate notation split into squares.
type Move struct {
	From      string // Origin square, "e2"
	To        string // Destination square, "e4"
	Promotion string // Promotion piece letter, "q", or empty
}

// String returns the move in coordinate notation.
func (m Move) String() string {
	return m.From + m.To + m.Promotion
}

// ParseMove splits engine move text such as "e2e4" or "e7e8q".
func ParseMove(text string) (Move, error) {
	if len(text) != 4 && len(text) != 5 {
		return Move{}, errors.Wrapf(errors.ErrMalformedMove, "%q", text)
	}
	m := Move{From: text[0:2], To: text[2:4], Promotion: strings.ToLower(text[4:])}
	if !isSquare(m.From) || !isSquare(m.To) {
		return Move{}, errors.Wrapf(errors.ErrMalformedMove, "%q", text)
	}
	if m.Promotion != "" && !strings.Contains("qrbn", m.Promotion) {
		return Move{}, errors.Wrapf(errors.ErrMalformedMove, "promotion in %q", text)
	}
	return m, nil
}

func isSquare(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}
