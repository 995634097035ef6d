package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/swapchess-go/internal/match"
)

// JSONGame represents a game in JSON format.
type JSONGame struct {
	Tags       map[string]string `json:"tags"`
	Moves      []JSONMove        `json:"moves,omitempty"`
	Result     string            `json:"result"`
	PlyCount   int               `json:"plyCount"`
	InitialFEN string            `json:"initialFEN"`
	FinalFEN   string            `json:"finalFEN,omitempty"`
	Swapped    string            `json:"swappedFirstMove,omitempty"` // White's first move before the swap
	Error      string            `json:"error,omitempty"`
}

// JSONMove represents a move in JSON format.
type JSONMove struct {
	MoveNumber int    `json:"moveNumber"`
	Color      string `json:"color"` // "white" or "black"
	SAN        string `json:"san,omitempty"`
	UCI        string `json:"uci"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// GameToJSON converts a match game to JSON form.
func GameToJSON(r match.Result, opts Options) *JSONGame {
	tags := GameTags(r, opts)
	jg := &JSONGame{
		Tags:       tags,
		Result:     tags["Result"],
		InitialFEN: InitialFEN(r),
		FinalFEN:   r.FinalFEN,
	}
	if r.SwappedFEN != "" && len(r.Moves) > 0 {
		jg.Swapped = r.Moves[0]
	}
	if r.Err != nil {
		jg.Error = r.Err.Error()
	}

	moves := GameMoves(r)
	jg.PlyCount = len(moves)
	jg.Moves = make([]JSONMove, len(moves))
	moveNum, isWhite := moveNumber(jg.InitialFEN)
	for i, uci := range moves {
		m := JSONMove{MoveNumber: moveNum, Color: colorName(isWhite), UCI: uci}
		if i < len(r.SAN) {
			m.SAN = r.SAN[i]
		}
		jg.Moves[i] = m

		if !isWhite {
			moveNum++
		}
		isWhite = !isWhite
	}
	return jg
}

func colorName(isWhite bool) string {
	if isWhite {
		return "white"
	}
	return "black"
}

// OutputGamesJSON writes results as one indented JSON document.
func OutputGamesJSON(w io.Writer, results []match.Result, opts Options) error {
	out := &JSONOutput{Games: make([]*JSONGame, len(results))}
	for i, r := range results {
		out.Games[i] = GameToJSON(r, opts)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
