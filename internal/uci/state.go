package uci

// State is the phase of an engine session.
type State int

const (
	StateStarted    State = iota // "uci" sent
	StateUCIReady                // uciok received, options sent, isready sent
	StateThinking                // a search is running
	StateMoveChosen              // the last search produced a move
	StateClosed                  // the engine output ended
)

var stateNames = [...]string{
	StateStarted:    "started",
	StateUCIReady:   "uci-ready",
	StateThinking:   "thinking",
	StateMoveChosen: "move-chosen",
	StateClosed:     "closed",
}

func (s State) String() string {
	if s < StateStarted || s > StateClosed {
		return "unknown"
	}
	return stateNames[s]
}
