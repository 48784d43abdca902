package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to w at the named level. Unknown levels
// fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", "signal-analyzer").
		Logger()
}

// NewConsole is New with human-readable output, for stderr.
func NewConsole(w io.Writer, level string) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}, level)
}

// OpenFile appends to path. The terminal UI owns stdout, so it logs here.
func OpenFile(path, level string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}

func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
