package domain

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationMessage(t *testing.T) {
	msg, err := NewNotificationMessage("Backup file created", "Bot", "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "Backup file created", msg.Content)
	assert.Equal(t, "Bot", msg.Username)
	assert.Equal(t, "https://example.com/a.png", msg.AvatarURL)

	_, err = NewNotificationMessage("", "Bot", "")
	assert.Error(t, err)
}

func TestNotificationMessage_OmitsUnsetFields(t *testing.T) {
	msg, err := NewNotificationMessage("hello", "", "")
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Equal(t, map[string]any{"content": "hello"}, payload)
	assert.NotContains(t, payload, "avatar_url")
	assert.NotContains(t, payload, "username")
}
