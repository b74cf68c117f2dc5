package mocks

import (
	"context"
	"errors"
	"sync"

	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"
)

// MockNotifier is a mock implementation of Notifier that records every message
type MockNotifier struct {
	NotifyFunc func(ctx context.Context, msg domain.NotificationMessage) error

	mu       sync.Mutex
	messages []domain.NotificationMessage
}

// Compile-time check to ensure MockNotifier implements ports.Notifier
var _ ports.Notifier = (*MockNotifier)(nil)

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records msg and returns the configured result
func (m *MockNotifier) Notify(ctx context.Context, msg domain.NotificationMessage) error {
	if m == nil {
		return errors.New("mock notifier cannot be nil")
	}
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()

	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, msg)
	}
	return nil
}

// Messages returns a copy of the recorded messages
func (m *MockNotifier) Messages() []domain.NotificationMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.NotificationMessage(nil), m.messages...)
}

// Contents returns the content field of every recorded message
func (m *MockNotifier) Contents() []string {
	var out []string
	for _, msg := range m.Messages() {
		out = append(out, msg.Content)
	}
	return out
}
