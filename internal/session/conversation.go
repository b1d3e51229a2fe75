package session

import (
	"fmt"

	"github.com/coodar/dscli/internal/api"
	apierrors "github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/models"
)

// Conversation is the ordered message history of one session. Messages are
// only ever appended; Reset drops them all.
type Conversation struct {
	messages []models.Message
}

// NewConversation returns an empty conversation
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds m after checking that the history stays valid: known role,
// system only in first position, and no two consecutive messages with the
// same role.
func (c *Conversation) Append(m models.Message) error {
	if !m.Role.Valid() {
		return apierrors.NewValidationError(fmt.Sprintf("invalid role %q", m.Role), "role")
	}
	if m.Role == models.RoleSystem && len(c.messages) > 0 {
		return apierrors.NewValidationError("system message must come first", "role")
	}
	if last, ok := c.Last(); ok && last.Role == m.Role {
		return apierrors.NewValidationError(
			fmt.Sprintf("%s message cannot follow another %s message", m.Role, m.Role), "role")
	}
	c.messages = append(c.messages, m)
	return nil
}

// Messages returns a copy of the history
func (c *Conversation) Messages() []models.Message {
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recent message
func (c *Conversation) Last() (models.Message, bool) {
	if len(c.messages) == 0 {
		return models.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Validate checks the whole history the way it will be checked before a
// request is sent.
func (c *Conversation) Validate() error {
	return api.ValidateMessages(c.messages)
}

// Reset removes every message
func (c *Conversation) Reset() {
	c.messages = nil
}
