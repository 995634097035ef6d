package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// newLogger writes human-readable logs to w. JSON selects plain zerolog
// output, which is what log files get.
func newLogger(w io.Writer, json bool, verbose, trace bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case trace:
		level = zerolog.TraceLevel
	case verbose:
		level = zerolog.DebugLevel
	}

	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// setupLogger configures logging from command-line flags. The returned
// function closes the log file, if any.
func setupLogger() (zerolog.Logger, func(), error) {
	if *logFile == "" {
		return newLogger(os.Stderr, false, *verbose, *trace), func() {}, nil
	}

	file, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created log files
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	return newLogger(file, true, *verbose, *trace), func() { file.Close() }, nil //nolint:errcheck,gosec // G104: cleanup on exit
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
