package invoice

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func sampleInvoice() *domain.Invoice {
	return &domain.Invoice{
		InterventionID: 5,
		Number:         "FACT-202603-0001",
		IssuedAt:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Client:         domain.ClientSnapshot{Name: "Marie Curie"},
		AmountHT:       decimal.NewFromInt(70),
		TaxRate:        decimal.RequireFromString("0.19"),
		Status:         domain.InvoicePending,
	}
}

func TestCreate_UniqueViolations(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "second invoice", dbErr: &pq.Error{Code: "23505", Constraint: "invoices_intervention_id_key"}, wantErr: ErrInvoiceAlreadyExists},
		{name: "number taken", dbErr: &pq.Error{Code: "23505", Constraint: "invoices_number_key"}, wantErr: ErrNumberConflict},
		{name: "intervention gone", dbErr: &pq.Error{Code: "23503", Constraint: "invoices_intervention_id_fkey"}, wantErr: ErrInterventionMissing},
		{name: "other unique", dbErr: &pq.Error{Code: "23505", Constraint: "something_else"}, wantErr: ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO invoices")).WillReturnError(tt.dbErr)

			_, err := repo.Create(context.Background(), sampleInvoice())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO invoices")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	inv, err := repo.Create(context.Background(), sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, int64(1), inv.ID)
}

func TestGetByInterventionID(t *testing.T) {
	repo, mock := newMock(t)
	issued := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM invoices WHERE intervention_id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			int64(1), int64(5), "FACT-202603-0001", issued,
			"Marie Curie", "1 rue Pierre", "marie@example.org",
			"70.00", "0.1900", "EN_ATTENTE", nil, nil, "Intervention du 02/03/2026",
			issued, issued,
		))

	inv, err := repo.GetByInterventionID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePending, inv.Status)
	assert.Equal(t, "83.30", inv.AmountTTC().StringFixed(2))
	assert.Nil(t, inv.PaymentDate)
	require.NotNil(t, inv.ServiceSummary)
}

func TestGetByInterventionID_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM invoices")).WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByInterventionID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestCountIssuedBetween(t *testing.T) {
	repo, mock := newMock(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM invoices WHERE issued_at >= $1 AND issued_at < $2")).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.CountIssuedBetween(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
