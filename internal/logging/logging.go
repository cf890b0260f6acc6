// Package logging builds the zerolog logger shared across every component,
// tagged with a per-component field so log lines are grouped by subsystem.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a logger whose level is selected by a repeat count of
// --verbose (0 => Error, 1 => Info, 2+ => Debug, mirroring the Rust
// original's log::LevelFilter mapping) and whose output goes to logFile if
// given, otherwise stderr.
func New(verbosity int, logFile string) (zerolog.Logger, error) {
	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, err
		}
		w = f
	}

	return zerolog.New(w).Level(levelFor(verbosity)).With().Timestamp().Logger(), nil
}

func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.ErrorLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
