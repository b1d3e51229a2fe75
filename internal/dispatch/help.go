package dispatch

import (
	"fmt"
	"strings"
)

var commandSummary = []struct {
	name string
	desc string
}{
	{"/help", "show the command reference"},
	{"/quit", "leave the session"},
	{"/stream", "toggle streaming output (on by default)"},
	{"/multi", "enter multi-line input, finish with /eof"},
	{"/model", "switch the active model"},
	{"/reset", "clear the conversation history"},
	{"/debug", "toggle diagnostic output"},
	{"/stop", "interrupt a streaming reply"},
}

// Banner returns the short command list printed at startup
func Banner() string {
	var sb strings.Builder
	sb.WriteString("=== dscli ===\n")
	sb.WriteString("Commands:\n")
	for _, c := range commandSummary {
		fmt.Fprintf(&sb, "  %-8s - %s\n", c.name, c.desc)
	}
	sb.WriteString("=============")
	return sb.String()
}

// HelpText returns the full command reference with the current toggles
func HelpText(stream, debug bool, modelName string) string {
	return fmt.Sprintf(`Available commands:
/quit - leave the session
    Ends the conversation and exits.

/stream - toggle streaming output
    Replies are printed as they arrive when on.
    Current state: %s

/debug - toggle debug mode
    Shows diagnostic logs when on.
    Current state: %s

/multi - multi-line input
    Every following line is captured verbatim until a line reading /eof.

/model [id] - switch the model
    Without an argument, pick from the list by number or id.
    Current model: %s

/reset - reset the conversation
    Clears the whole history and starts over.

/stop - interrupt output
    Stops a streaming reply; typing /stop, Ctrl-C or Ctrl-S while it
    streams does the same.

/help - show this reference`, onOff(stream), onOff(debug), modelName)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
