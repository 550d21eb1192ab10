package notificationservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SAV-InterventionService/internal/integrations/transport"
)

const idempotencyHeader = "Idempotency-Key"

// Client клиент сервиса уведомлений
type Client struct {
	http HTTPClient
}

// NewClient создает клиент сервиса уведомлений
func NewClient(http HTTPClient) *Client {
	return &Client{http: http}
}

// Send отправляет уведомление. key передается в Idempotency-Key,
// повторная доставка того же события не создает дубль у получателя
func (c *Client) Send(ctx context.Context, key string, n Notification) error {
	err := c.http.PostJSON(ctx, "/notifications", map[string]string{idempotencyHeader: key}, n, nil)
	if err == nil {
		return nil
	}
	if transport.IsRetryable(err) {
		return fmt.Errorf("notificationservice: send %s: %w", key, err)
	}
	if errors.Is(err, transport.ErrInvalidResponse) || errors.Is(err, transport.ErrNotFound) {
		return fmt.Errorf("%w: key=%s: %v", ErrRejected, key, err)
	}
	return fmt.Errorf("notificationservice: send %s: %w", key, err)
}
