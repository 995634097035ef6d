// swapchess plays chess against a UCI engine at a chosen difficulty, runs
// engine-vs-engine matches and looks up SWAP opening positions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lgbarn/swapchess-go/internal/config"
	"github.com/lgbarn/swapchess-go/internal/match"
	"github.com/lgbarn/swapchess-go/internal/output"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()
	if err := applyEnvDefaults(flag.CommandLine, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	os.Exit(run())
}

func run() int {
	if *help {
		usage()
		return 0
	}

	if *version {
		fmt.Printf("swapchess-go version %s\n", programVersion)
		return 0
	}

	// Table lookups need no engine
	if *listOpenings || *swapFEN != "" || *undoFEN != "" {
		return runLookup(os.Stdout, os.Stderr, *swapFEN, *undoFEN, *listOpenings)
	}

	cfg := config.NewConfig()
	if err := applyFlags(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	logger, closeLog, err := setupLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", *logFile, err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *matchGames > 0 {
		white, black, err := matchLevels(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		opts := matchOptions{
			Games:    *matchGames,
			Workers:  *workers,
			White:    white,
			Black:    black,
			Swap:     *swapOpening,
			MaxPlies: *maxPlies,
		}
		results := runMatch(ctx, opts, match.ProcessFactory(cfg, logger), logger)
		return reportMatch(opts, results, gameOptions(*eventName, time.Now()))
	}

	color, err := playColor()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if err := runPlay(ctx, cfg, color, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error().Err(err).Msg("game aborted")
		return 1
	}
	return 0
}

// reportMatch prints and saves match results and returns the exit code.
func reportMatch(opts matchOptions, results []match.Result, gameOpts output.Options) int {
	if *pgnFile != "" {
		if err := savePGN(*pgnFile, results, gameOpts); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing PGN file %s: %v\n", *pgnFile, err)
			return 1
		}
	}

	var s Score
	if *jsonOutput {
		if err := writeGames(output.NewJSONWriter(os.Stdout, gameOpts), results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		s = tally(results)
	} else {
		s = printMatch(os.Stdout, opts, results)
	}

	if s.Finished == 0 {
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: swapchess [options]\n\n")
	fmt.Fprintf(os.Stderr, "Play against a UCI engine, run engine matches or look up SWAP openings.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nDifficulties (-difficulty, -white-level, -black-level):\n")
	for _, d := range config.Difficulties() {
		s := d.Strength()
		fmt.Fprintf(os.Stderr, "  %-13s Skill Level %2d, UCI_Elo %d\n", d, s.SkillLevel, s.Elo)
	}
	fmt.Fprintf(os.Stderr, "\nEvery option can also be set as %sNAME (-white-level: %s).\n", envPrefix, envKey("white-level"))
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  swapchess -color white -difficulty easy\n")
	fmt.Fprintf(os.Stderr, "  swapchess -match 10 -white-level hard -black-level beginner -workers 4 -pgn games.pgn\n")
	fmt.Fprintf(os.Stderr, "  swapchess -swap 'rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1'\n")
}
