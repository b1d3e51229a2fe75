// Package logging builds the diagnostic logger shared by dscli components.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w. Only warnings and errors are
// shown unless debug is set.
func New(w io.Writer, debug bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !isColorWriter(w),
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(Level(debug))
}

// Level maps the debug toggle to a log level
func Level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

type fdWriter interface {
	Fd() uintptr
}

func isColorWriter(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && isTerminal(f.Fd())
}
