package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	"github.com/m04kA/SAV-InterventionService/pkg/dbmetrics"
	"github.com/m04kA/SAV-InterventionService/pkg/psqlbuilder"
)

const table = "outbox_events"

// Repository хранилище событий для сервиса уведомлений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue добавляет событие. Вызывается в той же транзакции, что и бизнес-запись
func (r *Repository) Enqueue(ctx context.Context, event *domain.OutboxEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	nextAttempt := event.NextAttemptAt
	if nextAttempt.IsZero() {
		nextAttempt = time.Now()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("event_key", "event_type", "payload", "status", "attempts", "next_attempt_at").
		Values(event.Key, event.EventType, []byte(event.Payload), domain.OutboxPending, 0, nextAttempt).
		Suffix("ON CONFLICT (event_key) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: Enqueue - execute insert: %v", ErrExecQuery, err)
	}

	event.Status = domain.OutboxPending
	event.NextAttemptAt = nextAttempt
	return nil
}

// FetchPending выбирает готовые к отправке события и блокирует их строки
// Параллельные обработчики пропускают уже заблокированные строки (SKIP LOCKED)
func (r *Repository) FetchPending(ctx context.Context, now time.Time, limit int) ([]*domain.OutboxEvent, error) {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return nil, ErrNotInTransaction
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"event_key",
		"event_type",
		"payload",
		"status",
		"attempts",
		"next_attempt_at",
		"last_error",
		"created_at",
	).
		From(table).
		Where(squirrel.Eq{"status": domain.OutboxPending}).
		Where(squirrel.LtOrEq{"next_attempt_at": now}).
		OrderBy("id").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - execute: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.OutboxEvent, 0, limit)
	for rows.Next() {
		var (
			event   domain.OutboxEvent
			payload []byte
			status  string
			lastErr sql.NullString
		)
		if err := rows.Scan(
			&event.ID,
			&event.Key,
			&event.EventType,
			&payload,
			&status,
			&event.Attempts,
			&event.NextAttemptAt,
			&lastErr,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: FetchPending - scan: %v", ErrScanRow, err)
		}
		event.Payload = payload
		event.Status = domain.OutboxStatus(status)
		if lastErr.Valid {
			event.LastError = &lastErr.String
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchPending - rows: %v", ErrScanRow, err)
	}

	return events, nil
}

// MarkSent отмечает событие доставленным
func (r *Repository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, "MarkSent", psqlbuilder.Update(table).
		Set("status", domain.OutboxSent).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("sent_at", at).
		Set("last_error", nil).
		Where(squirrel.Eq{"id": id}))
}

// MarkRetry переносит следующую попытку на next
func (r *Repository) MarkRetry(ctx context.Context, id int64, attempts int, next time.Time, lastErr string) error {
	return r.update(ctx, "MarkRetry", psqlbuilder.Update(table).
		Set("attempts", attempts).
		Set("next_attempt_at", next).
		Set("last_error", lastErr).
		Where(squirrel.Eq{"id": id}))
}

// MarkFailed окончательно снимает событие с доставки
func (r *Repository) MarkFailed(ctx context.Context, id int64, attempts int, lastErr string) error {
	return r.update(ctx, "MarkFailed", psqlbuilder.Update(table).
		Set("status", domain.OutboxFailed).
		Set("attempts", attempts).
		Set("last_error", lastErr).
		Where(squirrel.Eq{"id": id}))
}

func (r *Repository) update(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	return nil
}
