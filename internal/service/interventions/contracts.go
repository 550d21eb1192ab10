package interventions

import (
	"context"
	"time"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

// InterventionRepository интерфейс репозитория выездов
type InterventionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Intervention, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Intervention, error)
	Delete(ctx context.Context, id int64) error
}

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	GetByInterventionID(ctx context.Context, interventionID int64) (*domain.Invoice, error)
	DeleteByInterventionID(ctx context.Context, interventionID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
