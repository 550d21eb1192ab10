package estimate

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/articleservice"
	"github.com/m04kA/SAV-InterventionService/pkg/logger"
)

type articleClientStub struct {
	article *articleservice.Article
	err     error
}

func (s *articleClientStub) GetArticle(ctx context.Context, articleID int64) (*articleservice.Article, error) {
	return s.article, s.err
}

type metricsStub struct{ count int }

func (m *metricsStub) IncUpstreamDegraded(string) { m.count++ }

func TestEstimateParts(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  string
	}{
		{name: "rate applies", price: "100", want: "20"},
		{name: "floor applies", price: "30", want: "10"},
		{name: "rounded to cents", price: "99.99", want: "20"},
		{name: "odd cents", price: "123.45", want: "24.69"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &articleClientStub{article: &articleservice.Article{ID: 1, PurchasePrice: decimal.RequireFromString(tt.price)}}
			e := NewEstimator(client, domain.DefaultBillingRules(), nil, logger.NewWriter(io.Discard, "info"))

			got := e.EstimateParts(context.Background(), 1)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestEstimateParts_Fallback(t *testing.T) {
	m := &metricsStub{}
	client := &articleClientStub{err: errors.New("connection refused")}
	e := NewEstimator(client, domain.DefaultBillingRules(), m, logger.NewWriter(io.Discard, "info"))

	got := e.EstimateParts(context.Background(), 1)
	assert.True(t, decimal.NewFromInt(30).Equal(got))
	assert.Equal(t, 1, m.count)
}

func TestDefaultLabor(t *testing.T) {
	e := NewEstimator(&articleClientStub{}, domain.DefaultBillingRules(), nil, logger.NewWriter(io.Discard, "info"))
	assert.Equal(t, "50.00", e.DefaultLabor().StringFixed(2))
}
