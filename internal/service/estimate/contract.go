package estimate

import (
	"context"

	"github.com/m04kA/SAV-InterventionService/internal/integrations/articleservice"
)

// ArticleClient источник цены покупки артикула
type ArticleClient interface {
	GetArticle(ctx context.Context, articleID int64) (*articleservice.Article, error)
}

// Metrics учет срабатываний fallback
type Metrics interface {
	IncUpstreamDegraded(upstream string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
