package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/notificationservice"
)

// Результаты доставки (метка метрики)
const (
	ResultSent   = "sent"
	ResultRetry  = "retry"
	ResultFailed = "failed"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 20
	defaultMaxAttempts  = 8
	defaultBaseBackoff  = time.Second
	defaultMaxBackoff   = 5 * time.Minute
	tickTimeout         = 30 * time.Second
)

// Config параметры обработчика outbox
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BaseBackoff  time.Duration
	MaxBackoff   time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = defaultBaseBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	return c
}

// Dispatcher периодически доставляет события outbox в сервис уведомлений
type Dispatcher struct {
	repo         Repository
	notifier     Notifier
	txManager    TransactionManager
	cfg          Config
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewDispatcher создает обработчик. metrics может быть nil
func NewDispatcher(repo Repository, notifier Notifier, txManager TransactionManager, cfg Config, metrics Metrics, logger Logger) *Dispatcher {
	return &Dispatcher{
		repo:         repo,
		notifier:     notifier,
		txManager:    txManager,
		cfg:          cfg.withDefaults(),
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (d *Dispatcher) WithTimeProvider(tp TimeProvider) *Dispatcher {
	d.timeProvider = tp
	return d
}

// Run крутит цикл до отмены контекста
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("OutboxDispatcher: started, poll_interval=%s, batch_size=%d", d.cfg.PollInterval, d.cfg.BatchSize)

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("OutboxDispatcher: stopped")
			return
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, tickTimeout)
			if _, err := d.Tick(tickCtx); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Error("OutboxDispatcher: tick failed: %v", err)
			}
			cancel()
		}
	}
}

// Tick обрабатывает одну пачку событий и возвращает число обработанных
// Строки остаются заблокированными до конца транзакции, поэтому параллельные экземпляры их пропускают
func (d *Dispatcher) Tick(ctx context.Context) (int, error) {
	processed := 0
	err := d.txManager.Do(ctx, func(txCtx context.Context) error {
		events, err := d.repo.FetchPending(txCtx, d.timeProvider.Now(), d.cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, event := range events {
			if err := d.deliver(txCtx, event); err != nil {
				return err
			}
			processed++
		}
		return nil
	})
	return processed, err
}

// deliver отправляет событие и фиксирует результат; ошибка возвращается только при сбое записи
func (d *Dispatcher) deliver(ctx context.Context, event *domain.OutboxEvent) error {
	sendErr := d.notifier.Send(ctx, event.Key, notificationservice.Notification{
		EventType: event.EventType,
		Payload:   event.Payload,
	})

	now := d.timeProvider.Now()
	if sendErr == nil {
		d.count(ResultSent)
		return d.repo.MarkSent(ctx, event.ID, now)
	}

	attempts := event.Attempts + 1
	if errors.Is(sendErr, notificationservice.ErrRejected) || attempts >= d.cfg.MaxAttempts {
		d.logger.Error("OutboxDispatcher: event id=%d key=%s type=%s failed after %d attempts: %v",
			event.ID, event.Key, event.EventType, attempts, sendErr)
		d.count(ResultFailed)
		return d.repo.MarkFailed(ctx, event.ID, attempts, sendErr.Error())
	}

	next := now.Add(d.backoff(attempts))
	d.logger.Warn("OutboxDispatcher: event id=%d key=%s delivery failed (attempt %d), retry at %s: %v",
		event.ID, event.Key, attempts, next.Format(time.RFC3339), sendErr)
	d.count(ResultRetry)
	return d.repo.MarkRetry(ctx, event.ID, attempts, next, sendErr.Error())
}

// backoff base * 2^(attempts-1), не больше MaxBackoff
func (d *Dispatcher) backoff(attempts int) time.Duration {
	delay := d.cfg.BaseBackoff
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= d.cfg.MaxBackoff {
			return d.cfg.MaxBackoff
		}
	}
	return delay
}

func (d *Dispatcher) count(result string) {
	if d.metrics != nil {
		d.metrics.IncOutboxEvent(result)
	}
}
