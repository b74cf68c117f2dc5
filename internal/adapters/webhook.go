package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"savekeeper/internal/config"
	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"

	"github.com/goccy/go-json"
)

// WebhookNotifier error constants
var (
	ErrWebhookURLEmpty   = errors.New("webhook URL cannot be empty")
	ErrWebhookNil        = errors.New("webhook notifier cannot be nil")
	ErrWebhookContextNil = errors.New("context cannot be nil")
)

// WebhookNotifier posts chat messages to a Discord compatible webhook
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// Compile-time check to ensure WebhookNotifier implements ports.Notifier
var _ ports.Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier creates a notifier for url whose requests give up after timeout
func NewWebhookNotifier(url string, timeout time.Duration) (*WebhookNotifier, error) {
	if url == "" || url == config.NotificationsDisabled {
		return nil, ErrWebhookURLEmpty
	}
	if timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}

	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Notify sends msg as JSON and expects 204 No Content back
func (w *WebhookNotifier) Notify(ctx context.Context, msg domain.NotificationMessage) error {
	if w == nil {
		return ErrWebhookNil
	}
	if ctx == nil {
		return ErrWebhookContextNil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: failed to encode payload: %w", domain.ErrNotificationDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %w", domain.ErrNotificationDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotificationDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != config.WebhookSuccessStatus {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, config.WebhookMaxErrorBody))
		return fmt.Errorf("%w: status %d: %s", domain.ErrNotificationDelivery, resp.StatusCode, string(body))
	}

	return nil
}
