package warranty

import (
	"context"
	"time"

	"github.com/m04kA/SAV-InterventionService/internal/integrations/transport"
)

const upstreamName = "article_warranty"

// Config политика повторов
type Config struct {
	Retries int
	Backoff time.Duration
}

// Resolver определяет, покрыт ли артикул гарантией
//
// Любая ошибка каталога дает false: выезд считается платным.
// Это допущение, а не проверенный факт; результат не отличает
// "гарантии нет" от "каталог недоступен" (видно только в логах и метриках)
type Resolver struct {
	client  ArticleClient
	cfg     Config
	metrics Metrics
	log     Logger
}

// NewResolver создает resolver. metrics может быть nil
func NewResolver(client ArticleClient, cfg Config, metrics Metrics, log Logger) *Resolver {
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	return &Resolver{
		client:  client,
		cfg:     cfg,
		metrics: metrics,
		log:     log,
	}
}

// Resolve возвращает признак гарантии. Повторяет запрос только при временных ошибках
func (r *Resolver) Resolve(ctx context.Context, articleID int64) bool {
	var lastErr error

	for attempt := 0; attempt <= r.cfg.Retries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, r.cfg.Backoff); err != nil {
				lastErr = err
				break
			}
			r.log.Info("WarrantyResolver: retrying article_id=%d, attempt=%d", articleID, attempt+1)
		}

		underWarranty, err := r.client.GetWarranty(ctx, articleID)
		if err == nil {
			return underWarranty
		}
		lastErr = err

		if !transport.IsRetryable(err) {
			break
		}
	}

	r.log.Warn("WarrantyResolver: warranty check failed for article_id=%d, assuming not under warranty: %v", articleID, lastErr)
	if r.metrics != nil {
		r.metrics.IncUpstreamDegraded(upstreamName)
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
