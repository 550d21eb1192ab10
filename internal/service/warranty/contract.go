package warranty

import "context"

// ArticleClient источник признака гарантии
type ArticleClient interface {
	GetWarranty(ctx context.Context, articleID int64) (bool, error)
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
