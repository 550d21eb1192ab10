package articleservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SAV-InterventionService/internal/integrations/transport"
)

// Client клиент каталога артикулов
type Client struct {
	http HTTPClient
	log  Logger
}

// NewClient создает клиент каталога
func NewClient(http HTTPClient, log Logger) *Client {
	return &Client{
		http: http,
		log:  log,
	}
}

// GetArticle получает артикул по идентификатору
func (c *Client) GetArticle(ctx context.Context, articleID int64) (*Article, error) {
	var article Article
	if err := c.http.GetJSON(ctx, fmt.Sprintf("/articles/%d", articleID), &article); err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			return nil, fmt.Errorf("%w: article_id=%d", ErrArticleNotFound, articleID)
		}
		return nil, fmt.Errorf("articleservice: get article %d: %w", articleID, err)
	}
	return &article, nil
}

// GetWarranty возвращает признак гарантии артикула
// Каталог отвечает голым boolean; объект {"isUnderWarranty": ...} тоже принимается
func (c *Client) GetWarranty(ctx context.Context, articleID int64) (bool, error) {
	var raw json.RawMessage
	if err := c.http.GetJSON(ctx, fmt.Sprintf("/articles/%d/warranty", articleID), &raw); err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			return false, fmt.Errorf("%w: article_id=%d", ErrArticleNotFound, articleID)
		}
		return false, fmt.Errorf("articleservice: get warranty %d: %w", articleID, err)
	}

	underWarranty, err := parseWarranty(raw)
	if err != nil {
		c.log.Warn("ArticleService: unexpected warranty payload for article_id=%d: %s", articleID, string(raw))
		return false, fmt.Errorf("%w: article_id=%d: %v", ErrInvalidResponse, articleID, err)
	}

	return underWarranty, nil
}

func parseWarranty(raw json.RawMessage) (bool, error) {
	trimmed := bytes.TrimSpace(raw)

	var flag bool
	if err := json.Unmarshal(trimmed, &flag); err == nil {
		return flag, nil
	}

	var env warrantyEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return false, err
	}
	switch {
	case env.IsUnderWarranty != nil:
		return *env.IsUnderWarranty, nil
	case env.UnderWarranty != nil:
		return *env.UnderWarranty, nil
	default:
		return false, errors.New("warranty flag is missing")
	}
}
