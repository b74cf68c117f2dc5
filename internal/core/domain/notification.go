package domain

import "fmt"

// NotificationMessage is one chat message sent to the webhook.
// Empty fields are left out of the payload entirely.
type NotificationMessage struct {
	Content   string `json:"content,omitempty"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// NewNotificationMessage creates a message with sender identity applied
func NewNotificationMessage(content string, username string, avatarURL string) (NotificationMessage, error) {
	if content == "" {
		return NotificationMessage{}, fmt.Errorf("notification content cannot be empty")
	}

	return NotificationMessage{
		Content:   content,
		Username:  username,
		AvatarURL: avatarURL,
	}, nil
}
