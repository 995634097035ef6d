// Package output writes finished match games as PGN or JSON.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lgbarn/swapchess-go/internal/board"
	"github.com/lgbarn/swapchess-go/internal/match"
)

// SevenTagRoster lists the tags every PGN game carries, in order.
var SevenTagRoster = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

// Options describes the event the games belong to.
type Options struct {
	Event         string
	Site          string
	Date          time.Time
	MaxLineLength int // PGN move text width; 0 means 80
}

// Tags is the PGN header of one game.
type Tags map[string]string

// GameTags returns the header of r. Games that start from a position other
// than the initial one get SetUp and FEN tags.
func GameTags(r match.Result, opts Options) Tags {
	tags := Tags{
		"Event":  orUnknown(opts.Event),
		"Site":   orUnknown(opts.Site),
		"Date":   "????.??.??",
		"Round":  strconv.Itoa(r.Pairing.Index + 1),
		"White":  playerName(r.Pairing.White.String()),
		"Black":  playerName(r.Pairing.Black.String()),
		"Result": result(r),
	}
	if !opts.Date.IsZero() {
		tags["Date"] = opts.Date.Format("2006.01.02")
	}
	if fen := InitialFEN(r); fen != board.InitialFEN {
		tags["SetUp"] = "1"
		tags["FEN"] = fen
	}
	if r.Method != "" {
		tags["Termination"] = r.Method
	}
	tags["PlyCount"] = strconv.Itoa(len(r.SAN))
	return tags
}

func playerName(level string) string {
	return "engine (" + level + ")"
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// result returns the PGN result token; aborted games are unfinished.
func result(r match.Result) string {
	if r.Err != nil || r.Outcome == "" {
		return "*"
	}
	return r.Outcome
}

// InitialFEN returns the position the recorded game starts from: the
// swapped position when the opening was swapped.
func InitialFEN(r match.Result) string {
	if r.SwappedFEN != "" {
		return r.SwappedFEN
	}
	if r.StartFEN == "" {
		return board.InitialFEN
	}
	return r.StartFEN
}

// GameMoves returns the coordinate moves played from InitialFEN. The first
// move of a swapped game was replaced by the swap and is not part of it.
func GameMoves(r match.Result) []string {
	if r.SwappedFEN != "" && len(r.Moves) > 0 {
		return r.Moves[1:]
	}
	return r.Moves
}

// moveNumber returns the full move number and side to move of a FEN.
func moveNumber(fen string) (num int, whiteToMove bool) {
	fields := strings.Fields(fen)
	num, whiteToMove = 1, true
	if len(fields) > 1 {
		whiteToMove = fields[1] != "b"
	}
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			num = n
		}
	}
	return num, whiteToMove
}

// OutputWriter handles formatted output with line length control.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
}

// NewOutputWriter creates a new output writer.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	if maxLineLength <= 0 {
		maxLineLength = 80
	}
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a token, breaking the line first when it would not fit.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		if o.lineLength+1+len(s) > o.maxLineLength {
			fmt.Fprintln(o.w)
			o.lineLength = 0
		} else {
			fmt.Fprint(o.w, " ")
			o.lineLength++
		}
	}

	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	fmt.Fprintln(o.w)
	o.lineLength = 0
	o.needsSpace = false
}

// OutputGame writes r as one PGN game followed by a blank line.
func OutputGame(w io.Writer, r match.Result, opts Options) {
	tags := GameTags(r, opts)
	outputTags(tags, w)
	fmt.Fprintln(w)
	outputMoves(r, tags["Result"], opts.MaxLineLength, w)
	fmt.Fprintln(w)
}

// outputTags writes the seven tag roster followed by the remaining tags in
// a fixed order.
func outputTags(tags Tags, w io.Writer) {
	for _, tag := range SevenTagRoster {
		fmt.Fprintf(w, "[%s \"%s\"]\n", tag, escapeTagValue(tags[tag]))
	}
	for _, tag := range []string{"SetUp", "FEN", "Termination", "PlyCount"} {
		if value, ok := tags[tag]; ok {
			fmt.Fprintf(w, "[%s \"%s\"]\n", tag, escapeTagValue(value))
		}
	}
}

// escapeTagValue escapes special characters in tag values.
func escapeTagValue(s string) string {
	if !strings.ContainsAny(s, "\\\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

func outputMoves(r match.Result, res string, maxLineLength int, w io.Writer) {
	ow := NewOutputWriter(w, maxLineLength)
	moveNum, isWhite := moveNumber(InitialFEN(r))

	for i, san := range r.SAN {
		if isWhite {
			ow.Write(fmt.Sprintf("%d.", moveNum))
		} else if i == 0 {
			ow.Write(fmt.Sprintf("%d...", moveNum))
		}
		ow.Write(san)

		if !isWhite {
			moveNum++
		}
		isWhite = !isWhite
	}

	ow.Write(res)
	ow.NewLine()
}
