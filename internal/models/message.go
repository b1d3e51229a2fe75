package models

// Role identifies the author of a message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles the API accepts
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is one entry of a conversation. Messages are immutable once
// appended to a conversation.
type Message struct {
	Role      Role
	Content   string
	Reasoning string // reasoning text, only for assistant messages of reasoning models
}
