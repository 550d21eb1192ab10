package clientservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SAV-InterventionService/internal/integrations/transport"
)

// Client клиент реестра клиентов
type Client struct {
	http HTTPClient
	log  Logger
}

// NewClient создает клиент реестра клиентов
func NewClient(http HTTPClient, log Logger) *Client {
	return &Client{
		http: http,
		log:  log,
	}
}

// GetClient получает клиента по идентификатору
func (c *Client) GetClient(ctx context.Context, clientID int64) (*ClientInfo, error) {
	var info ClientInfo
	if err := c.http.GetJSON(ctx, fmt.Sprintf("/clients/%d", clientID), &info); err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			return nil, fmt.Errorf("%w: client_id=%d", ErrClientNotFound, clientID)
		}
		return nil, fmt.Errorf("clientservice: get client %d: %w", clientID, err)
	}
	return &info, nil
}

// GetClientWithGracefulDegradation получает клиента с graceful degradation
// Любая ошибка, включая отсутствие клиента, превращается в ErrServiceDegraded:
// выставление счета не должно блокироваться поиском клиента
func (c *Client) GetClientWithGracefulDegradation(ctx context.Context, clientID int64) (*ClientInfo, error) {
	info, err := c.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			c.log.Warn("ClientService: client_id=%d not found, applying graceful degradation", clientID)
		} else {
			c.log.Error("ClientService unavailable, applying graceful degradation for client_id=%d: %v", clientID, err)
		}
		return nil, fmt.Errorf("%w: client_id=%d, error=%v", ErrServiceDegraded, clientID, err)
	}

	c.log.Info("Successfully fetched client_id=%d", clientID)
	return info, nil
}
