package interrupt

import (
	"strings"
	"unicode/utf8"
)

// Control characters recognised on input
const (
	keyCtrlC     = '\x03'
	keyCtrlS     = '\x13'
	keyBackspace = '\x08'
	keyDelete    = '\x7f'
)

// stopCommand cancels the response once typed, without Enter
const stopCommand = "/stop"

// runeAssembler rebuilds characters from input that arrives one byte at a
// time.
type runeAssembler struct {
	buf []byte
}

// feed adds b and returns the characters it completes. A buffer that
// still does not decode at utf8.UTFMax bytes is dropped.
func (a *runeAssembler) feed(b byte) []rune {
	a.buf = append(a.buf, b)
	if utf8.Valid(a.buf) {
		out := []rune(string(a.buf))
		a.buf = a.buf[:0]
		return out
	}
	if len(a.buf) >= utf8.UTFMax {
		a.buf = a.buf[:0]
	}
	return nil
}

// lineMatcher holds the characters typed since the last newline and tells
// when they form a cancellation request.
type lineMatcher struct {
	line []rune
}

// push applies r and reports whether it triggers cancellation
func (l *lineMatcher) push(r rune) bool {
	switch r {
	case keyCtrlC, keyCtrlS:
		return true
	case keyBackspace, keyDelete:
		if n := len(l.line); n > 0 {
			l.line = l.line[:n-1]
		}
		return false
	case '\r', '\n':
		l.reset()
		return false
	}

	l.line = append(l.line, r)
	return strings.ToLower(strings.TrimSpace(string(l.line))) == stopCommand
}

func (l *lineMatcher) reset() {
	l.line = l.line[:0]
}

func (l *lineMatcher) String() string {
	return string(l.line)
}
