// Package uci drives an external chess engine over the Universal Chess
// Interface. An Engine owns one engine instance for one game session: it
// performs the handshake, configures strength for a difficulty tier and
// plays the engine's moves on a Board when it is the engine's turn.
//
// All engine output is handled by a single goroutine, one line at a time,
// so session state changes only in response to engine messages.
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/lgbarn/swapchess-go/internal/config"
	"github.com/lgbarn/swapchess-go/internal/errors"
)

// Board is the game the engine plays on.
type Board interface {
	TurnColor() chess.Color
	Move(from, to, promotion string) error
}

// Result is the outcome of one search.
type Result struct {
	Move    string // Move text as sent by the engine
	Applied bool   // Whether the move was played on the board
	Err     error
}

type options struct {
	logger   zerolog.Logger
	session  string
	validate Validator
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(o *options) { o.session = id }
}

// WithValidator overrides WebAssembly detection in Start.
func WithValidator(v Validator) Option {
	return func(o *options) { o.validate = v }
}

// Engine is a UCI engine session bound to a board and a side.
type Engine struct {
	transport Transport
	board     Board
	color     chess.Color
	cfg       config.Config
	session   string
	log       zerolog.Logger

	mu         sync.Mutex
	state      State
	ready      bool
	bestMove   string
	engineName string
	pending    int    // searches sent and not yet answered
	generation int    // incremented for every search sent
	queued     string // position line held back until readyok
	resync     bool   // isready sent after an abandoned search, readyok pending

	readyCh chan struct{}
	results chan Result
	done    chan struct{}
}

// Start selects the engine build, launches it and begins the handshake.
func Start(ctx context.Context, b Board, color chess.Color, cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := collect(opts)

	variant := SelectVariant(cfg.Engine, o.validate)
	t, err := StartProcess(ctx, variant.Argv...)
	if err != nil {
		return nil, &errors.EngineError{Err: err, Op: "start", Session: o.session}
	}
	o.logger.Info().
		Str("variant", variant.Name).
		Strs("argv", variant.Argv).
		Int("pid", t.Pid()).
		Msg("engine started")

	return newEngine(t, b, color, cfg, o), nil
}

// New begins a session over an already running engine.
func New(t Transport, b Board, color chess.Color, cfg *config.Config, opts ...Option) *Engine {
	return newEngine(t, b, color, cfg, collect(opts))
}

func collect(opts []Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.session == "" {
		o.session = uuid.NewString()
	}
	return o
}

func newEngine(t Transport, b Board, color chess.Color, cfg *config.Config, o *options) *Engine {
	e := &Engine{
		transport: t,
		board:     b,
		color:     color,
		cfg:       *cfg,
		session:   o.session,
		state:     StateStarted,
		readyCh:   make(chan struct{}),
		results:   make(chan Result, 1),
		done:      make(chan struct{}),
	}
	e.log = o.logger.With().
		Str("session", e.session).
		Str("color", strings.ToLower(color.Name())).
		Stringer("difficulty", cfg.Difficulty).
		Logger()

	go e.run()
	if err := e.send("uci"); err != nil {
		e.log.Error().Err(err).Msg("handshake failed")
	}
	return e
}

func (e *Engine) run() {
	defer close(e.done)

	lines, errs := e.transport.Lines(), e.transport.Errors()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				e.setState(StateClosed)
				e.log.Debug().Msg("engine output closed")
				return
			}
			e.handle(line)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			e.log.Error().Err(err).Msg("engine transport error")
		}
	}
}

// handle dispatches one line of engine output on its first token. Unknown
// tokens are ignored, as UCI requires.
func (e *Engine) handle(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	e.log.Trace().Str("line", line).Msg("recv")

	switch fields[0] {
	case "id":
		if len(fields) > 2 && fields[1] == "name" {
			name := strings.Join(fields[2:], " ")
			e.mu.Lock()
			e.engineName = name
			e.mu.Unlock()
			if e.cfg.LogEngineMetadata {
				e.log.Info().Str("name", name).Msg("found engine version")
			}
		}
	case "option":
		if e.cfg.LogEngineMetadata {
			e.log.Debug().Str("option", strings.Join(fields[1:], " ")).Msg("supported option")
		}
	case "uciok":
		e.onUCIOK()
	case "readyok":
		e.onReadyOK()
	case "bestmove":
		if len(fields) > 1 {
			e.onBestMove(fields[1])
		}
	}
}

func (e *Engine) onUCIOK() {
	strength := e.cfg.Difficulty.Strength()

	// Ignored by engines that no longer have it.
	e.setOption("Analysis Contempt", "Off")
	e.setOption("UCI_LimitStrength", "true")
	e.setOption("Skill Level", strconv.Itoa(strength.SkillLevel))
	e.setOption("UCI_Elo", strconv.Itoa(strength.Elo))
	if e.cfg.SkillOverride {
		e.setOption("Skill Level", "0")
	}

	e.setState(StateUCIReady)
	e.sendLogged("ucinewgame")
	e.sendLogged("isready")
}

func (e *Engine) onReadyOK() {
	e.mu.Lock()
	first := !e.ready
	e.ready = true
	if e.resync {
		// Any reply to the abandoned search came before this readyok.
		e.resync = false
		e.pending = 0
		e.state = StateUCIReady
	}
	queued := e.queued
	e.queued = ""
	start := queued != "" || (first && e.cfg.SearchOnReady)
	if start {
		select {
		case <-e.results:
		default:
		}
		e.beginSearchLocked()
	}
	e.mu.Unlock()

	if first {
		close(e.readyCh)
	}
	if queued != "" {
		e.sendLogged(queued)
	}
	if start {
		e.sendLogged(e.goCommand())
	}
}

func (e *Engine) onBestMove(text string) {
	e.mu.Lock()
	if e.pending > 0 {
		e.pending--
	}
	if e.pending > 0 {
		e.mu.Unlock()
		e.log.Debug().Str("move", text).Msg("dropping reply to superseded search")
		return
	}
	if e.resync {
		e.mu.Unlock()
		e.log.Debug().Str("move", text).Msg("dropping reply to abandoned search")
		return
	}
	gen := e.generation

	if text == "(none)" || text == "0000" {
		e.state = StateMoveChosen
		e.mu.Unlock()
		e.deliver(gen, Result{Move: text, Err: errors.ErrNoMove})
		return
	}
	m, err := ParseMove(text)
	if err != nil {
		e.mu.Unlock()
		e.log.Debug().Err(err).Msg("ignoring bestmove")
		return
	}
	if text == e.bestMove {
		e.mu.Unlock()
		e.log.Debug().Str("move", text).Msg("ignoring repeated bestmove")
		return
	}
	e.bestMove = text
	e.state = StateMoveChosen
	e.mu.Unlock()

	res := Result{Move: text}
	if e.board.TurnColor() == e.color {
		if err := e.board.Move(m.From, m.To, m.Promotion); err != nil {
			e.log.Error().Err(err).Str("move", text).Msg("board rejected engine move")
			res.Err = err
		} else {
			res.Applied = true
			e.log.Debug().Str("move", text).Msg("played engine move")
		}
	} else {
		e.log.Debug().Str("move", text).Msg("not our turn, move recorded")
	}
	e.deliver(gen, res)
}

// deliver hands r to AwaitMove unless a newer search was sent since the
// reply was accepted. An unread older result is replaced.
func (e *Engine) deliver(gen int, r Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		return
	}
	select {
	case <-e.results:
	default:
	}
	e.results <- r
}

// beginSearchLocked accounts for a search about to be sent. Replies to
// earlier searches become stale. Callers hold e.mu.
func (e *Engine) beginSearchLocked() {
	e.pending++
	e.generation++
	e.state = StateThinking
}

// abortSearch undoes beginSearchLocked when the request never reached the
// engine.
func (e *Engine) abortSearch() {
	e.mu.Lock()
	if e.pending > 0 {
		e.pending--
	}
	e.mu.Unlock()
}

// abandonSearch stops the running search and probes the engine with
// isready. UCI answers a stop with bestmove before it answers isready, so
// the outstanding search count is reset on the next readyok. Searches
// requested in between wait for it. An engine that never answers keeps
// them waiting and later waits time out again.
func (e *Engine) abandonSearch() {
	e.mu.Lock()
	skip := !e.ready || e.resync || e.pending == 0
	if !skip {
		e.resync = true
	}
	e.mu.Unlock()
	if skip {
		return
	}
	e.sendLogged("stop")
	e.sendLogged("isready")
}

func (e *Engine) goCommand() string {
	return fmt.Sprintf("go movetime %d", e.cfg.ThinkTime.Milliseconds())
}

// SendPosition sets the game to the start position followed by moves (space
// separated coordinate notation) and starts a search. Before the handshake
// completes, or while the engine catches up after an abandoned search, the
// position is held and sent on readyok.
func (e *Engine) SendPosition(moves string) error {
	return e.sendPosition("position startpos", moves)
}

// SendPositionFrom is SendPosition for games that start from fen, such as
// a swapped opening.
func (e *Engine) SendPositionFrom(fen, moves string) error {
	if fen == "" {
		return e.SendPosition(moves)
	}
	return e.sendPosition("position fen "+fen, moves)
}

func (e *Engine) sendPosition(cmd, moves string) error {
	if moves = strings.TrimSpace(moves); moves != "" {
		cmd += " moves " + moves
	}

	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()
		return &errors.EngineError{Err: errors.ErrEngineClosed, Op: "position", Session: e.session}
	}
	// A result already waiting belongs to an earlier position.
	select {
	case <-e.results:
	default:
	}
	if !e.ready || e.resync {
		e.queued = cmd
		e.mu.Unlock()
		return nil
	}
	busy := e.pending > 0
	e.beginSearchLocked()
	e.mu.Unlock()

	if busy {
		e.sendLogged("stop")
	}
	for _, line := range []string{cmd, e.goCommand()} {
		if err := e.send(line); err != nil {
			e.abortSearch()
			return err
		}
	}
	return nil
}

// NewGame tells the engine the next position belongs to a different game,
// such as the swapped position after the first move. The last recorded
// move is forgotten so the engine may repeat it.
func (e *Engine) NewGame() error {
	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()
		return &errors.EngineError{Err: errors.ErrEngineClosed, Op: "new game", Session: e.session}
	}
	e.bestMove = ""
	e.mu.Unlock()
	return e.send("ucinewgame")
}

// WaitReady blocks until the engine has answered the first readiness probe.
func (e *Engine) WaitReady(ctx context.Context) error {
	select {
	case <-e.readyCh:
		return nil
	case <-e.done:
		return &errors.EngineError{Err: errors.ErrEngineClosed, Op: "handshake", Session: e.session}
	case <-ctx.Done():
		return &errors.EngineError{Err: ctx.Err(), Op: "handshake", Session: e.session}
	}
}

// AwaitMove waits for the result of the latest search. It gives up after
// the configured search timeout or when ctx ends and abandons the search;
// the session stays usable afterwards.
func (e *Engine) AwaitMove(ctx context.Context) (Result, error) {
	if e.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.SearchTimeout)
		defer cancel()
	}

	select {
	case r := <-e.results:
		if r.Err != nil {
			return r, &errors.EngineError{Err: r.Err, Op: "search", Session: e.session, Line: "bestmove " + r.Move}
		}
		return r, nil
	case <-e.done:
		return Result{}, &errors.EngineError{Err: errors.ErrEngineClosed, Op: "search", Session: e.session}
	case <-ctx.Done():
		e.abandonSearch()
		err := ctx.Err()
		if err == context.DeadlineExceeded {
			err = errors.ErrSearchTimeout
		}
		return Result{}, &errors.EngineError{Err: err, Op: "search", Session: e.session}
	}
}

// Close ends the session and releases the engine.
func (e *Engine) Close() error {
	e.sendLogged("quit")
	err := e.transport.Close()
	<-e.done
	return err
}

// State returns the current session phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// BestMove returns the last move the engine announced, or "".
func (e *Engine) BestMove() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bestMove
}

// EngineName returns the name from the engine's "id name" line.
func (e *Engine) EngineName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engineName
}

// Color returns the side the engine plays.
func (e *Engine) Color() chess.Color { return e.color }

// Difficulty returns the configured strength tier.
func (e *Engine) Difficulty() config.Difficulty { return e.cfg.Difficulty }

// Session returns the session identifier used in logs and errors.
func (e *Engine) Session() string { return e.session }

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) setOption(name, value string) {
	e.sendLogged(fmt.Sprintf("setoption name %s value %s", name, value))
}

func (e *Engine) send(line string) error {
	e.log.Trace().Str("line", line).Msg("send")
	if err := e.transport.Send(line); err != nil {
		return &errors.EngineError{Err: err, Op: "send", Session: e.session, Line: line}
	}
	return nil
}

// sendLogged sends line and logs a failure instead of returning it.
func (e *Engine) sendLogged(line string) {
	if err := e.send(line); err != nil {
		e.log.Error().Err(err).Msg("send failed")
	}
}
