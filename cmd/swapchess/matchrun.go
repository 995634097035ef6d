package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/swapchess-go/internal/config"
	"github.com/lgbarn/swapchess-go/internal/hashing"
	"github.com/lgbarn/swapchess-go/internal/match"
	"github.com/lgbarn/swapchess-go/internal/output"
	"github.com/lgbarn/swapchess-go/internal/worker"
)

// matchOptions describes an engine-vs-engine match.
type matchOptions struct {
	Games    int
	Workers  int
	White    config.Difficulty
	Black    config.Difficulty
	Swap     bool
	MaxPlies int
}

// Score is the running total of a match from each side's point of view.
type Score struct {
	White, Black float64
	Finished     int
	Failed       int
	Repeated     int // finished games identical to an earlier one
}

// buildPairings returns the games of a match in play order.
func buildPairings(opts matchOptions) []match.Pairing {
	pairings := make([]match.Pairing, opts.Games)
	for i := range pairings {
		pairings[i] = match.Pairing{
			Index:    i,
			White:    opts.White,
			Black:    opts.Black,
			Swap:     opts.Swap,
			MaxPlies: opts.MaxPlies,
		}
	}
	return pairings
}

// runMatch plays every pairing on a worker pool and returns the results in
// pairing order.
func runMatch(ctx context.Context, opts matchOptions, factory match.EngineFactory, logger zerolog.Logger) []match.Result {
	pairings := buildPairings(opts)
	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	pool := worker.NewPoolWithOptions(worker.PlayFunc(factory),
		worker.WithWorkers(numWorkers),
		worker.WithBufferSize(len(pairings)+1),
		worker.WithContext(ctx),
	)
	pool.Start()

	results := make([]match.Result, len(pairings))
	var g errgroup.Group
	g.Go(func() error {
		for i, p := range pairings {
			pool.Submit(worker.WorkItem{Pairing: p, Index: i})
		}
		pool.Close()
		return nil
	})
	g.Go(func() error {
		for r := range pool.Results() {
			results[r.Index] = r.Result
			ev := logger.Info()
			if r.Error != nil {
				ev = logger.Warn().Err(r.Error)
			}
			ev.Int("game", r.Index).Str("outcome", r.Result.Outcome).Int("plies", len(r.Result.Moves)).Msg("game finished")
		}
		return nil
	})
	_ = g.Wait() // both goroutines always return nil

	return results
}

// tally adds up a match. Unfinished games score nothing.
func tally(results []match.Result) Score {
	var s Score
	seen := hashing.NewDuplicateDetector(true)
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Finished++
		if seen.CheckAndAdd(r) {
			s.Repeated++
		}
		switch r.Outcome {
		case "1-0":
			s.White++
		case "0-1":
			s.Black++
		case "1/2-1/2":
			s.White += 0.5
			s.Black += 0.5
		}
	}
	return s
}

// printMatch writes one line per game followed by the score.
func printMatch(w io.Writer, opts matchOptions, results []match.Result) Score {
	for _, r := range results {
		fmt.Fprintln(w, r.String())
	}
	s := tally(results)
	fmt.Fprintf(w, "White (%s) %.1f - %.1f Black (%s), %d finished, %d failed",
		opts.White, s.White, s.Black, opts.Black, s.Finished, s.Failed)
	if s.Repeated > 0 {
		fmt.Fprintf(w, ", %d repeated", s.Repeated)
	}
	fmt.Fprintln(w)
	return s
}

// gameOptions returns the PGN event details for games played now.
func gameOptions(event string, now time.Time) output.Options {
	host, _ := os.Hostname()
	return output.Options{Event: event, Site: host, Date: now}
}

// writeGames sends every result to w and closes it.
func writeGames(w output.GameWriter, results []match.Result) error {
	for _, r := range results {
		if err := w.WriteGame(r); err != nil {
			return err
		}
	}
	return w.Close()
}

// savePGN appends results to the PGN file at path.
func savePGN(path string, results []match.Result, opts output.Options) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created output files
	if err != nil {
		return err
	}
	if err := writeGames(output.NewPGNWriter(file, opts), results); err != nil {
		file.Close() //nolint:errcheck,gosec // G104: the write error is reported
		return err
	}
	return file.Close()
}
