package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/models"
)

func TestConversation_Append(t *testing.T) {
	tests := []struct {
		name    string
		seed    []models.Role
		next    models.Role
		wantErr bool
	}{
		{"user first", nil, models.RoleUser, false},
		{"system first", nil, models.RoleSystem, false},
		{"assistant first", nil, models.RoleAssistant, false},
		{"user after system", []models.Role{models.RoleSystem}, models.RoleUser, false},
		{"assistant after user", []models.Role{models.RoleUser}, models.RoleAssistant, false},
		{"two users", []models.Role{models.RoleUser}, models.RoleUser, true},
		{"two assistants", []models.Role{models.RoleUser, models.RoleAssistant}, models.RoleAssistant, true},
		{"late system", []models.Role{models.RoleUser}, models.RoleSystem, true},
		{"unknown role", nil, models.Role("tool"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConversation()
			for _, r := range tt.seed {
				require.NoError(t, c.Append(models.Message{Role: r, Content: "x"}))
			}
			err := c.Append(models.Message{Role: tt.next, Content: "y"})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apierrors.IsValidationError(err))
				assert.Equal(t, len(tt.seed), c.Len(), "rejected message must not be stored")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.seed)+1, c.Len())
		})
	}
}

func TestConversation_AlternationHolds(t *testing.T) {
	c := NewConversation()
	roles := []models.Role{
		models.RoleSystem, models.RoleUser, models.RoleUser, models.RoleAssistant,
		models.RoleAssistant, models.RoleUser, models.RoleSystem, models.RoleAssistant,
	}
	for _, r := range roles {
		_ = c.Append(models.Message{Role: r, Content: string(r)})
	}

	msgs := c.Messages()
	for i := 1; i < len(msgs); i++ {
		assert.NotEqual(t, msgs[i-1].Role, msgs[i].Role, "messages %d and %d share a role", i-1, i)
	}
	assert.NoError(t, c.Validate())
}

func TestConversation_MessagesIsACopy(t *testing.T) {
	c := NewConversation()
	require.NoError(t, c.Append(models.Message{Role: models.RoleUser, Content: "hi"}))

	msgs := c.Messages()
	msgs[0].Content = "changed"

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "hi", last.Content)
}

func TestConversation_Reset(t *testing.T) {
	c := NewConversation()
	require.NoError(t, c.Append(models.Message{Role: models.RoleUser, Content: "hi"}))

	c.Reset()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Last()
	assert.False(t, ok)

	c.Reset()
	assert.Equal(t, 0, c.Len())
	assert.Error(t, c.Validate(), "an empty conversation cannot be sent")
}
