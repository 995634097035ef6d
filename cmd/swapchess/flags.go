// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"fmt"

	"github.com/notnil/chess"

	"github.com/lgbarn/swapchess-go/internal/board"
	"github.com/lgbarn/swapchess-go/internal/config"
	"github.com/lgbarn/swapchess-go/internal/match"
)

var (
	// Engine location
	enginePath = flag.String("engine", config.DefaultEnginePath, "UCI engine executable")
	wasmPath   = flag.String("wasm", "", "WebAssembly engine build, used when the runner is available")
	wasmRunner = flag.String("runner", config.DefaultWASMRunner, "WebAssembly runtime for -wasm")

	// Strength and timing
	difficulty      = flag.String("difficulty", "intermediate", "Engine strength: beginner, easy, intermediate, hard, impossible")
	moveTime        = flag.Duration("movetime", config.DefaultThinkTime, "Engine thinking time per move")
	searchTimeout   = flag.Duration("timeout", config.DefaultSearchTimeout, "Abandon a search after this long (0 = no limit)")
	noSkillOverride = flag.Bool("no-skill-override", false, "Keep the tier's Skill Level instead of forcing it to 0")
	metadata        = flag.Bool("metadata", false, "Log the engine name and its options")

	// Interactive play
	engineColor = flag.String("color", "black", "Side the engine plays: white or black")
	swapOpening = flag.Bool("swap-opening", false, "Replace White's first move with Black's mirrored reply")

	// Swap table lookups
	swapFEN      = flag.String("swap", "", "Print the swapped position for a FEN after White's first move")
	undoFEN      = flag.String("undo", "", "Print the first-move position a swapped FEN came from")
	listOpenings = flag.Bool("list", false, "List the swap table")

	// Engine matches
	matchGames = flag.Int("match", 0, "Play N engine-vs-engine games and exit")
	workers    = flag.Int("workers", 0, "Games played at once (0 = number of CPUs)")
	whiteLevel = flag.String("white-level", "", "White's difficulty in a match (default: -difficulty)")
	blackLevel = flag.String("black-level", "", "Black's difficulty in a match (default: -difficulty)")
	maxPlies   = flag.Int("maxplies", match.DefaultMaxPlies, "Stop match games after N plies")
	pgnFile    = flag.String("pgn", "", "Append match games to this PGN file")
	jsonOutput = flag.Bool("J", false, "Print match games as JSON instead of a summary")
	eventName  = flag.String("event", "swapchess match", "Event tag for match games")

	// Logging
	verbose = flag.Bool("v", false, "Verbose logging")
	trace   = flag.Bool("trace", false, "Log every protocol line")
	logFile = flag.String("l", "", "Write logs to this file as JSON")

	// Other options
	envFile = flag.String("env", ".env", "File of "+envPrefix+"* flag defaults; the environment takes precedence")
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")
)

// applyFlags applies command-line flags to the configuration.
func applyFlags(cfg *config.Config) error {
	applyEngineFlags(cfg)
	if err := applyStrengthFlags(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// applyEngineFlags configures where the engine comes from.
func applyEngineFlags(cfg *config.Config) {
	cfg.Engine.Path = *enginePath
	cfg.Engine.WASMPath = *wasmPath
	cfg.Engine.WASMRunner = *wasmRunner
	cfg.LogEngineMetadata = *metadata
}

// applyStrengthFlags configures difficulty and search timing.
func applyStrengthFlags(cfg *config.Config) error {
	d, err := config.ParseDifficulty(*difficulty)
	if err != nil {
		return err
	}
	cfg.Difficulty = d
	cfg.ThinkTime = *moveTime
	cfg.SearchTimeout = *searchTimeout
	cfg.SkillOverride = !*noSkillOverride
	return nil
}

// playColor returns the side the engine plays in interactive mode.
func playColor() (chess.Color, error) {
	return board.ParseColor(*engineColor)
}

// matchLevels returns the difficulty of each side in a match; an empty
// flag falls back to the session difficulty.
func matchLevels(cfg *config.Config) (white, black config.Difficulty, err error) {
	white, black = cfg.Difficulty, cfg.Difficulty
	if *whiteLevel != "" {
		if white, err = config.ParseDifficulty(*whiteLevel); err != nil {
			return white, black, fmt.Errorf("-white-level: %w", err)
		}
	}
	if *blackLevel != "" {
		if black, err = config.ParseDifficulty(*blackLevel); err != nil {
			return white, black, fmt.Errorf("-black-level: %w", err)
		}
	}
	return white, black, nil
}
