// Package interrupt watches the keyboard while a response streams and
// reports when the user asks to stop it.
package interrupt

import (
	"os"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// Console is the terminal the monitor reads from
type Console interface {
	// IsTerminal reports whether input comes from an interactive terminal
	IsTerminal() bool
	// MakeRaw switches the terminal to raw mode and returns the function
	// that restores the previous mode
	MakeRaw() (restore func() error, err error)
	// NewReader returns a reader over the input whose blocked Read can be
	// cancelled
	NewReader() (cancelreader.CancelReader, error)
}

// StdConsole is the Console backed by a terminal file, normally os.Stdin
type StdConsole struct {
	In *os.File
}

// NewStdConsole returns the Console for os.Stdin
func NewStdConsole() *StdConsole {
	return &StdConsole{In: os.Stdin}
}

func (c *StdConsole) IsTerminal() bool {
	return c.In != nil && term.IsTerminal(int(c.In.Fd()))
}

func (c *StdConsole) MakeRaw() (func() error, error) {
	fd := int(c.In.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(fd, state) }, nil
}

func (c *StdConsole) NewReader() (cancelreader.CancelReader, error) {
	return cancelreader.NewReader(c.In)
}
