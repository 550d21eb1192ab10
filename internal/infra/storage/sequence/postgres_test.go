package sequence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCounter_Next(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO invoice_sequences (period,last_value) VALUES ($1,$2) ON CONFLICT (period) DO UPDATE")).
		WithArgs("202603", 1).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO invoice_sequences")).
		WillReturnError(errors.New("connection reset"))

	counter := NewPostgresCounter(db)

	value, err := counter.Next(context.Background(), "202603")
	require.NoError(t, err)
	assert.Equal(t, int64(7), value)

	_, err = counter.Next(context.Background(), "202603")
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}
