// Package errors provides sentinel errors and error types for swapchess.
// It defines common error conditions and structured error types that preserve
// context while allowing error inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidFEN indicates a FEN string outside the accepted domain.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrNotFirstMove indicates a FEN that is not a position after White's first move.
	ErrNotFirstMove = fmt.Errorf("non-first-move FEN: %w", ErrInvalidFEN)

	// ErrNotSwapMove indicates a FEN that is not a position after Black's swap move.
	ErrNotSwapMove = fmt.Errorf("non-swap-move FEN: %w", ErrInvalidFEN)

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrMalformedMove indicates engine move text that is not coordinate notation.
	ErrMalformedMove = errors.New("malformed move")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSearchTimeout indicates the engine did not answer a search in time.
	ErrSearchTimeout = errors.New("search timed out")

	// ErrNoMove indicates the engine finished a search without a move.
	ErrNoMove = errors.New("engine has no move")

	// ErrEngineClosed indicates the engine session has ended.
	ErrEngineClosed = errors.New("engine closed")
)

// PositionError wraps errors with the position that caused them.
// It implements the error interface and supports unwrapping via
// errors.Is() and errors.As().
type PositionError struct {
	Err error  // The underlying error
	Op  string // Operation that failed (e.g. "swap", "undo swap")
	FEN string // The offending position
}

// Error returns a formatted error message including all available context.
func (e *PositionError) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, "cannot "+e.Op)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	msg := strings.Join(parts, ": ")
	if e.FEN != "" {
		msg += fmt.Sprintf(" (%s)", e.FEN)
	}
	return msg
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the PositionError wrapper.
func (e *PositionError) Unwrap() error {
	return e.Err
}

// EngineError represents a failure talking to an external engine.
type EngineError struct {
	Err     error  // The underlying error
	Op      string // Protocol step (e.g. "start", "send", "search")
	Session string // Engine session identifier (if known)
	Line    string // Protocol line involved (if any)
}

// Error returns a formatted error message with session and line context.
func (e *EngineError) Error() string {
	var parts []string

	if e.Session != "" {
		parts = append(parts, "engine "+e.Session)
	} else {
		parts = append(parts, "engine")
	}
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Line != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Line))
	}

	context := strings.Join(parts, ": ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
