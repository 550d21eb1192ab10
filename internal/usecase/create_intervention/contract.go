package create_intervention

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/complaintservice"
	"github.com/m04kA/SAV-InterventionService/internal/usecase/auto_invoice"
)

// InterventionRepository интерфейс репозитория выездов
type InterventionRepository interface {
	Create(ctx context.Context, intervention *domain.Intervention) (*domain.Intervention, error)
}

// OutboxRepository очередь событий для сервиса уведомлений
type OutboxRepository interface {
	Enqueue(ctx context.Context, event *domain.OutboxEvent) error
}

// ComplaintServiceClient интерфейс клиента реестра рекламаций
type ComplaintServiceClient interface {
	GetComplaint(ctx context.Context, complaintID int64) (*complaintservice.Complaint, error)
}

// WarrantyResolver признак гарантии артикула (с fallback на false)
type WarrantyResolver interface {
	Resolve(ctx context.Context, articleID int64) bool
}

// CostEstimator оценка стоимости выезда
type CostEstimator interface {
	EstimateParts(ctx context.Context, articleID int64) decimal.Decimal
	DefaultLabor() decimal.Decimal
}

// AutoInvoicer идемпотентное выставление счета
type AutoInvoicer interface {
	MaybeExecute(ctx context.Context, interventionID int64) (*auto_invoice.Result, error)
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
