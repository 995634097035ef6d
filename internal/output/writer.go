package output

import (
	"bufio"
	"io"

	"github.com/lgbarn/swapchess-go/internal/match"
)

// GameWriter is the interface for writing games to output.
type GameWriter interface {
	// WriteGame writes a single game to the output.
	WriteGame(r match.Result) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close flushes and, for batch writers, writes any pending output.
	Close() error
}

// PGNWriter writes games in PGN format as they arrive.
type PGNWriter struct {
	w    *bufio.Writer
	opts Options
}

// NewPGNWriter creates a new PGN writer.
func NewPGNWriter(w io.Writer, opts Options) *PGNWriter {
	return &PGNWriter{w: bufio.NewWriter(w), opts: opts}
}

// WriteGame writes a game in PGN format.
func (pw *PGNWriter) WriteGame(r match.Result) error {
	OutputGame(pw.w, r, pw.opts)
	return nil
}

// Flush writes buffered games to the underlying writer.
func (pw *PGNWriter) Flush() error {
	return pw.w.Flush()
}

// Close flushes the PGN writer.
func (pw *PGNWriter) Close() error {
	return pw.Flush()
}

// JSONWriter buffers games and writes them as one JSON document on Flush.
type JSONWriter struct {
	w     io.Writer
	opts  Options
	games []match.Result
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(w io.Writer, opts Options) *JSONWriter {
	return &JSONWriter{w: w, opts: opts}
}

// WriteGame buffers a game for JSON output.
func (jw *JSONWriter) WriteGame(r match.Result) error {
	jw.games = append(jw.games, r)
	return nil
}

// Flush writes all buffered games as a JSON array.
func (jw *JSONWriter) Flush() error {
	if len(jw.games) == 0 {
		return nil
	}
	err := OutputGamesJSON(jw.w, jw.games, jw.opts)
	jw.games = jw.games[:0]
	return err
}

// Close flushes and closes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}
