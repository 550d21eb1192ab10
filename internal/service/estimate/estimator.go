package estimate

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

const upstreamName = "article_catalog"

// Estimator оценивает стоимость выезда, когда она не указана явно
type Estimator struct {
	client  ArticleClient
	rules   domain.BillingRules
	metrics Metrics
	log     Logger
}

// NewEstimator создает оценщик. metrics может быть nil
func NewEstimator(client ArticleClient, rules domain.BillingRules, metrics Metrics, log Logger) *Estimator {
	return &Estimator{
		client:  client,
		rules:   rules,
		metrics: metrics,
		log:     log,
	}
}

// EstimateParts max(цена покупки * ставка, минимум); при недоступном каталоге фиксированная оценка
func (e *Estimator) EstimateParts(ctx context.Context, articleID int64) decimal.Decimal {
	article, err := e.client.GetArticle(ctx, articleID)
	if err != nil {
		e.log.Warn("CostEstimator: article_id=%d unavailable, using fallback parts cost %s: %v",
			articleID, e.rules.FallbackPartsCost.StringFixed(2), err)
		if e.metrics != nil {
			e.metrics.IncUpstreamDegraded(upstreamName)
		}
		return e.rules.FallbackPartsCost.Round(2)
	}

	estimate := decimal.Max(article.PurchasePrice.Mul(e.rules.PartsRate), e.rules.MinPartsCost)
	return estimate.Round(2)
}

// DefaultLabor стоимость работы по умолчанию
func (e *Estimator) DefaultLabor() decimal.Decimal {
	return e.rules.DefaultLaborCost.Round(2)
}
