package sequence

import (
	"context"
	"fmt"

	"github.com/m04kA/SAV-InterventionService/pkg/dbmetrics"
	"github.com/m04kA/SAV-InterventionService/pkg/psqlbuilder"
)

// PostgresCounter счетчик на строке invoice_sequences(period)
// Инкремент делается одним upsert-запросом: строка блокируется до конца транзакции,
// параллельные транзакции того же периода ждут и получают следующее значение.
// Откат транзакции счета откатывает и инкремент, дыр в нумерации нет
type PostgresCounter struct {
	db DBExecutor
}

// NewPostgresCounter создает счетчик
func NewPostgresCounter(db DBExecutor) *PostgresCounter {
	return &PostgresCounter{db: db}
}

// Next атомарно увеличивает счетчик периода и возвращает новое значение
func (c *PostgresCounter) Next(ctx context.Context, period string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, c.db)

	query, args, err := psqlbuilder.Insert("invoice_sequences").
		Columns("period", "last_value").
		Values(period, 1).
		Suffix("ON CONFLICT (period) DO UPDATE SET last_value = invoice_sequences.last_value + 1, updated_at = NOW() RETURNING last_value").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Next - build upsert query: %v", ErrBuildQuery, err)
	}

	var value int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return 0, fmt.Errorf("%w: Next - period=%s: %v", ErrExecQuery, period, err)
	}

	return value, nil
}
