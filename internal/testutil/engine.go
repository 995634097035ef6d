package testutil

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lgbarn/swapchess-go/internal/errors"
)

// Responder maps one command sent to an engine to the lines it prints back.
type Responder func(cmd string) []string

// FakeEngine is an in-memory engine transport. Every command is recorded and
// answered by its Responder; tests can also inject output with Emit.
type FakeEngine struct {
	mu      sync.Mutex
	sent    []string
	respond Responder
	closed  bool

	lines chan string
	errs  chan error
}

// NewFakeEngine creates a fake engine. A nil responder never answers.
func NewFakeEngine(respond Responder) *FakeEngine {
	if respond == nil {
		respond = func(string) []string { return nil }
	}
	return &FakeEngine{
		respond: respond,
		lines:   make(chan string, 256),
		errs:    make(chan error, 16),
	}
}

// Send records cmd and queues the responder's reply.
func (f *FakeEngine) Send(cmd string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.ErrEngineClosed
	}
	f.sent = append(f.sent, cmd)
	for _, line := range f.respond(cmd) {
		f.lines <- line
	}
	return nil
}

// Lines returns the engine's output stream.
func (f *FakeEngine) Lines() <-chan string { return f.lines }

// Errors returns the transport error stream.
func (f *FakeEngine) Errors() <-chan error { return f.errs }

// Close ends the output stream. It is safe to call more than once.
func (f *FakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.lines)
	}
	return nil
}

// Emit queues unsolicited engine output.
func (f *FakeEngine) Emit(lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	for _, line := range lines {
		f.lines <- line
	}
}

// Fail queues a transport error.
func (f *FakeEngine) Fail(err error) {
	f.errs <- err
}

// Sent returns a copy of every command received so far.
func (f *FakeEngine) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// SentSince returns the commands received after the first n.
func (f *FakeEngine) SentSince(n int) []string {
	sent := f.Sent()
	if n >= len(sent) {
		return nil
	}
	return sent[n:]
}

// WaitSent blocks until at least n commands were received and returns them.
func (f *FakeEngine) WaitSent(t testing.TB, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sent := f.Sent(); len(sent) >= n {
			return sent
		}
		time.Sleep(time.Millisecond)
	}
	sent := f.Sent()
	t.Fatalf("engine received %d commands, want %d: %q", len(sent), n, sent)
	return sent
}

// Handshake answers "uci" and "isready" the way Stockfish does and passes
// every other command to next (which may be nil).
func Handshake(next Responder) Responder {
	return func(cmd string) []string {
		switch cmd {
		case "uci":
			return []string{
				"id name Fakefish 1.0",
				"id author swapchess tests",
				"option name Skill Level type spin default 20 min 0 max 20",
				"option name UCI_Elo type spin default 1320 min 1320 max 3190",
				"uciok",
			}
		case "isready":
			return []string{"readyok"}
		}
		if next == nil {
			return nil
		}
		return next(cmd)
	}
}

// ScriptedMoves answers each "go" with the next move of the script and
// "bestmove (none)" once the script runs out.
func ScriptedMoves(moves ...string) Responder {
	var mu sync.Mutex
	next := 0
	return Handshake(func(cmd string) []string {
		if !strings.HasPrefix(cmd, "go") {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		if next >= len(moves) {
			return []string{"bestmove (none)"}
		}
		m := moves[next]
		next++
		return []string{"info depth 1 score cp 12 pv " + m, "bestmove " + m}
	})
}
