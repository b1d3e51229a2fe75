package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
		name string
		arg  string
	}{
		{"hello there", CmdNone, "", ""},
		{"", CmdNone, "", ""},
		{"  what is /quit?", CmdNone, "", ""},
		{"/quit", CmdQuit, "/quit", ""},
		{"  /QUIT  ", CmdQuit, "/quit", ""},
		{"/stream", CmdStream, "/stream", ""},
		{"/help", CmdHelp, "/help", ""},
		{"/debug", CmdDebug, "/debug", ""},
		{"/multi", CmdMulti, "/multi", ""},
		{"/model", CmdModel, "/model", ""},
		{"/model deepseek-reasoner", CmdModel, "/model", "deepseek-reasoner"},
		{"/Model   2 ", CmdModel, "/model", "2"},
		{"/reset", CmdReset, "/reset", ""},
		{"/stop", CmdStop, "/stop", ""},
		{"/quit now", CmdUnknown, "/quit", "now"},
		{"/unknown", CmdUnknown, "/unknown", ""},
		{"/", CmdUnknown, "/", ""},
		{"/eof", CmdUnknown, "/eof", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd := Parse(tt.line)
			assert.Equal(t, tt.kind, cmd.Kind)
			assert.Equal(t, tt.name, cmd.Name)
			assert.Equal(t, tt.arg, cmd.Arg)
			assert.Equal(t, tt.line, cmd.Raw)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "/quit", CmdQuit.String())
	assert.Equal(t, "none", CmdNone.String())
	assert.Equal(t, "unknown", CmdUnknown.String())
}

func TestIsEOF(t *testing.T) {
	assert.True(t, IsEOF("/eof"))
	assert.True(t, IsEOF("  /eof\t"))
	assert.False(t, IsEOF("/EOF"))
	assert.False(t, IsEOF("text /eof"))
}

func TestBannerListsCommands(t *testing.T) {
	b := Banner()
	for _, c := range commandSummary {
		assert.Contains(t, b, c.name)
	}
}

func TestHelpText(t *testing.T) {
	h := HelpText(true, false, "DeepSeek Chat")
	assert.Contains(t, h, "Current state: on")
	assert.Contains(t, h, "Current state: off")
	assert.Contains(t, h, "Current model: DeepSeek Chat")
}
