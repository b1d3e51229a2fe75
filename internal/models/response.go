package models

import "strings"

// ReasoningSeparator joins reasoning and answer text when a reasoning model's
// reply is stored as a single message.
const ReasoningSeparator = "\n\nFinal answer:\n"

// DeltaChunk is one incremental fragment of a streamed response
type DeltaChunk struct {
	Content   string
	Reasoning string
}

// Empty reports whether the chunk carries no text at all
func (d DeltaChunk) Empty() bool {
	return d.Content == "" && d.Reasoning == ""
}

// Completion is a complete (buffered) response from the API
type Completion struct {
	Content      string
	Reasoning    string
	FinishReason string
}

// Text assembles the stored reply. The reasoning text is kept only for
// models that expose a reasoning channel.
func (c *Completion) Text(reasoningModel bool) string {
	return JoinReply(c.Reasoning, c.Content, reasoningModel)
}

// JoinReply joins reasoning and content with ReasoningSeparator when the
// model supports reasoning and reasoning text is present; otherwise it
// returns the content alone.
func JoinReply(reasoning, content string, reasoningModel bool) string {
	if !reasoningModel || strings.TrimSpace(reasoning) == "" {
		return content
	}
	return reasoning + ReasoningSeparator + content
}
