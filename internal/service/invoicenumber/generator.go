package invoicenumber

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

// Generator формирует номер счета вида {prefix}-{yyyyMM}-{NNNN}
type Generator struct {
	prefix   string
	strategy string
	counter  Counter
}

// NewGenerator создает генератор; strategy попадает в логи и метрики
func NewGenerator(prefix, strategy string, counter Counter) *Generator {
	if prefix == "" {
		prefix = domain.DefaultInvoicePrefix
	}
	return &Generator{
		prefix:   prefix,
		strategy: strategy,
		counter:  counter,
	}
}

// Strategy имя стратегии нумерации
func (g *Generator) Strategy() string {
	return g.strategy
}

// Next следующий номер для периода, к которому относится now
// Для стратегии sequence вызов должен идти внутри транзакции вставки счета
func (g *Generator) Next(ctx context.Context, now time.Time) (string, error) {
	period := Period(now)

	seq, err := g.counter.Next(ctx, period)
	if err != nil {
		return "", fmt.Errorf("%w: period=%s, strategy=%s: %v", ErrCounter, period, g.strategy, err)
	}

	return Format(g.prefix, period, seq), nil
}

// Period месяц нумерации для момента t; не зависит от часового пояса процесса
func Period(t time.Time) string {
	return t.In(domain.PeriodLocation).Format(domain.PeriodFormat)
}

// Format собирает номер из частей
func Format(prefix, period string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, period, seq)
}

// CountingCounter схема "посчитать счета за месяц и прибавить единицу"
// Номер уникален только при одном писателе: два параллельных вызова получат одинаковое значение,
// коллизию ловит уникальный индекс invoices.number
type CountingCounter struct {
	invoices InvoiceCounter
}

// NewCountingCounter создает счетчик поверх хранилища счетов
// Границы месяца берутся в том же поясе, что и период в Generator.Next
func NewCountingCounter(invoices InvoiceCounter) *CountingCounter {
	return &CountingCounter{invoices: invoices}
}

// Next количество счетов за период плюс один
func (c *CountingCounter) Next(ctx context.Context, period string) (int64, error) {
	from, err := time.ParseInLocation(domain.PeriodFormat, period, domain.PeriodLocation)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", period, err)
	}

	count, err := c.invoices.CountIssuedBetween(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}
