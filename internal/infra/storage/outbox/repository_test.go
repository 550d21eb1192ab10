package outbox

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	"github.com/m04kA/SAV-InterventionService/pkg/dbmetrics"
)

var fetchColumns = []string{"id", "event_key", "event_type", "payload", "status", "attempts", "next_attempt_at", "last_error", "created_at"}

func TestEnqueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO outbox_events (event_key,event_type,payload,status,attempts,next_attempt_at)")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), now))

	event := &domain.OutboxEvent{Key: "invoice.created:1", EventType: domain.EventInvoiceCreated, Payload: json.RawMessage(`{}`)}
	require.NoError(t, NewRepository(db).Enqueue(context.Background(), event))
	assert.Equal(t, int64(3), event.ID)
	assert.Equal(t, domain.OutboxPending, event.Status)
	assert.False(t, event.NextAttemptAt.IsZero())
}

func TestEnqueue_DuplicateKeyIsIgnored(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (event_key) DO NOTHING")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))

	event := &domain.OutboxEvent{Key: "k", EventType: "x", Payload: json.RawMessage(`{}`)}
	assert.NoError(t, NewRepository(db).Enqueue(context.Background(), event))
}

func TestFetchPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()

	_, err = repo.FetchPending(context.Background(), now, 10)
	assert.ErrorIs(t, err, ErrNotInTransaction)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id LIMIT 10 FOR UPDATE SKIP LOCKED")).
		WillReturnRows(sqlmock.NewRows(fetchColumns).
			AddRow(int64(1), "k1", domain.EventInterventionCreated, []byte(`{"id":1}`), "pending", 0, now, nil, now).
			AddRow(int64(2), "k2", domain.EventInvoiceCreated, []byte(`{"id":2}`), "pending", 2, now, "timeout", now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	events, err := repo.FetchPending(ctx, now, 10)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.Len(t, events, 2)
	assert.Equal(t, "k1", events[0].Key)
	assert.JSONEq(t, `{"id":1}`, string(events[0].Payload))
	assert.Nil(t, events[0].LastError)
	assert.Equal(t, 2, events[1].Attempts)
	assert.Equal(t, "timeout", *events[1].LastError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkTransitions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events SET status = $1")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events SET attempts = $1, next_attempt_at = $2")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events SET status = $1, attempts = $2")).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkSent(context.Background(), 1, now))
	assert.NoError(t, repo.MarkRetry(context.Background(), 2, 1, now.Add(time.Second), "boom"))
	assert.NoError(t, repo.MarkFailed(context.Background(), 3, 8, "boom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
