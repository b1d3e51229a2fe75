// Package models contains data types and constants for the chat completion API.
package models

import "strings"

// Endpoints for the chat completion API
const (
	DefaultBaseURL     = "https://api.deepseek.com/v1"
	PathChatCompletion = "chat/completions"
)

// Content types
const (
	ContentTypeJSON        = "application/json"
	ContentTypeEventStream = "text/event-stream"
)

// Model ids known out of the box
const (
	ModelChat     = "deepseek-chat"
	ModelReasoner = "deepseek-reasoner"
)

// ModelInfo describes one entry of the available model set
type ModelInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Reasoning bool   `json:"reasoning,omitempty"` // exposes a reasoning channel
}

// DisplayName returns the human readable name, falling back to the id
func (m ModelInfo) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// DefaultModels returns the built-in ordered model set
func DefaultModels() []ModelInfo {
	return []ModelInfo{
		{ID: ModelChat, Name: "DeepSeek Chat"},
		{ID: ModelReasoner, Name: "DeepSeek Reasoner", Reasoning: true},
	}
}

// FindModel looks up id in the ordered set. Matching is case-insensitive.
func FindModel(set []ModelInfo, id string) (ModelInfo, bool) {
	id = strings.TrimSpace(id)
	for _, m := range set {
		if strings.EqualFold(m.ID, id) {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// SupportsReasoning reports whether id has a reasoning channel in set
func SupportsReasoning(set []ModelInfo, id string) bool {
	m, ok := FindModel(set, id)
	return ok && m.Reasoning
}

// DefaultHeaders returns the default headers for completion requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": ContentTypeJSON,
		"Accept":       ContentTypeJSON,
		"User-Agent":   "dscli/0.1",
	}
}

// StreamHeaders returns the headers for streaming completion requests
func StreamHeaders() map[string]string {
	h := DefaultHeaders()
	h["Accept"] = ContentTypeEventStream
	h["Cache-Control"] = "no-cache"
	return h
}
