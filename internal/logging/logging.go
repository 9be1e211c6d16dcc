// Package logging builds the diagnostic logger. Diagnostics go to stderr so
// they never interleave with the menu listing on stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// DefaultLevel keeps routine runs quiet.
const DefaultLevel = "warn"

// ParseLevel converts a --log-level flag value to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		s = DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// New returns a console logger writing to w at level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(cw).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
