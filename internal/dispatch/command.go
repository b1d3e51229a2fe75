// Package dispatch recognizes REPL directives and applies them to the
// session state.
package dispatch

import "strings"

// Kind identifies a REPL directive
type Kind int

const (
	CmdNone Kind = iota // chat text, not a directive
	CmdQuit
	CmdStream
	CmdHelp
	CmdDebug
	CmdMulti
	CmdModel
	CmdReset
	CmdStop
	CmdUnknown // starts with "/" but names no directive
)

// String returns the directive as typed, or a label for the special kinds
func (k Kind) String() string {
	switch k {
	case CmdNone:
		return "none"
	case CmdQuit:
		return "/quit"
	case CmdStream:
		return "/stream"
	case CmdHelp:
		return "/help"
	case CmdDebug:
		return "/debug"
	case CmdMulti:
		return "/multi"
	case CmdModel:
		return "/model"
	case CmdReset:
		return "/reset"
	case CmdStop:
		return "/stop"
	default:
		return "unknown"
	}
}

// EOFMarker ends multi-line capture. It is only meaningful while capturing.
const EOFMarker = "/eof"

// Command is one parsed input line. Raw keeps the original text, casing
// included, so chat text is forwarded unchanged.
type Command struct {
	Kind Kind
	Name string
	Arg  string
	Raw  string
}

// Parse classifies line. Matching trims and lower-cases the input; only
// /model accepts an argument, every other directive must stand alone.
func Parse(line string) Command {
	cmd := Command{Kind: CmdNone, Raw: line}

	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return cmd
	}

	name := strings.Fields(trimmed)[0]
	cmd.Name = strings.ToLower(name)
	cmd.Arg = strings.TrimSpace(trimmed[len(name):])
	cmd.Kind = lookup(cmd.Name)

	if cmd.Arg != "" && cmd.Kind != CmdModel {
		cmd.Kind = CmdUnknown
	}
	return cmd
}

func lookup(name string) Kind {
	switch name {
	case "/quit":
		return CmdQuit
	case "/stream":
		return CmdStream
	case "/help":
		return CmdHelp
	case "/debug":
		return CmdDebug
	case "/multi":
		return CmdMulti
	case "/model":
		return CmdModel
	case "/reset":
		return CmdReset
	case "/stop":
		return CmdStop
	default:
		return CmdUnknown
	}
}

// IsEOF reports whether line ends multi-line capture
func IsEOF(line string) bool {
	return strings.TrimSpace(line) == EOFMarker
}
