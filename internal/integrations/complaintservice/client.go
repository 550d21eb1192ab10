package complaintservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SAV-InterventionService/internal/integrations/transport"
)

// Client клиент реестра рекламаций
type Client struct {
	http HTTPClient
	log  Logger
}

// NewClient создает клиент реестра рекламаций
func NewClient(http HTTPClient, log Logger) *Client {
	return &Client{
		http: http,
		log:  log,
	}
}

// GetComplaint получает рекламацию. Ошибки не маскируются: вызов обязателен для создания выезда
func (c *Client) GetComplaint(ctx context.Context, complaintID int64) (*Complaint, error) {
	var complaint Complaint
	if err := c.http.GetJSON(ctx, fmt.Sprintf("/complaints/%d", complaintID), &complaint); err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			c.log.Info("ComplaintService: complaint_id=%d not found", complaintID)
			return nil, fmt.Errorf("%w: complaint_id=%d", ErrComplaintNotFound, complaintID)
		}
		c.log.Error("ComplaintService: failed to fetch complaint_id=%d: %v", complaintID, err)
		return nil, fmt.Errorf("complaintservice: get complaint %d: %w", complaintID, err)
	}
	return &complaint, nil
}
