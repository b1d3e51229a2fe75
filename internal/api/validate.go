package api

import (
	"fmt"

	apierrors "github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/models"
)

// ValidateMessages checks a message sequence before it is sent: it must be
// non-empty, use only known roles, and never repeat a role back to back.
// A system message is only allowed in first position.
func ValidateMessages(msgs []models.Message) error {
	if len(msgs) == 0 {
		return apierrors.NewValidationError("message list is empty", "messages")
	}

	for i, m := range msgs {
		path := fmt.Sprintf("messages[%d]", i)
		if !m.Role.Valid() {
			return apierrors.NewValidationError(fmt.Sprintf("invalid role %q", m.Role), path)
		}
		if m.Role == models.RoleSystem && i != 0 {
			return apierrors.NewValidationError("system message must come first", path)
		}
		if i > 0 && msgs[i-1].Role == m.Role {
			return apierrors.NewValidationError(
				fmt.Sprintf("consecutive messages share role %q", m.Role), path)
		}
	}

	return nil
}
