package cliconfig

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger returns a zerolog logger writing to stderr at level. A terminal gets
// human readable console output, anything else gets JSON lines.
func Logger(level string) zerolog.Logger {
	var out io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewLogger(out, level)
}

// NewLogger returns a timestamped logger writing to out. An unknown level
// falls back to info.
func NewLogger(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
