package auto_invoice

import (
	"context"
	"time"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/clientservice"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/complaintservice"
)

// InterventionRepository интерфейс репозитория выездов
type InterventionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Intervention, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Intervention, error)
}

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	GetByInterventionID(ctx context.Context, interventionID int64) (*domain.Invoice, error)
}

// OutboxRepository очередь событий для сервиса уведомлений
type OutboxRepository interface {
	Enqueue(ctx context.Context, event *domain.OutboxEvent) error
}

// ComplaintServiceClient интерфейс клиента реестра рекламаций
type ComplaintServiceClient interface {
	GetComplaint(ctx context.Context, complaintID int64) (*complaintservice.Complaint, error)
}

// ClientServiceClient интерфейс клиента реестра клиентов
type ClientServiceClient interface {
	GetClientWithGracefulDegradation(ctx context.Context, clientID int64) (*clientservice.ClientInfo, error)
}

// NumberGenerator генератор номеров счетов
type NumberGenerator interface {
	Next(ctx context.Context, now time.Time) (string, error)
	Strategy() string
}

// Metrics бизнес-метрики выставления счетов
type Metrics interface {
	IncInvoiceCreated(trigger string)
	IncInvoiceNumberConflict(strategy string)
	IncUpstreamDegraded(upstream string)
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
