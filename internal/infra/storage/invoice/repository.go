package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	"github.com/m04kA/SAV-InterventionService/internal/infra/storage/pgerr"
	"github.com/m04kA/SAV-InterventionService/pkg/dbmetrics"
	"github.com/m04kA/SAV-InterventionService/pkg/psqlbuilder"
)

const (
	table = "invoices"

	constraintInterventionUnique = "invoices_intervention_id_key"
	constraintNumberUnique       = "invoices_number_key"
)

var columns = []string{
	"id",
	"intervention_id",
	"number",
	"issued_at",
	"client_name",
	"client_address",
	"client_email",
	"amount_ht",
	"tax_rate",
	"status",
	"payment_date",
	"payment_method",
	"service_description",
	"created_at",
	"updated_at",
}

// Repository репозиторий счетов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет счет. Нарушения уникальности различаются по имени ограничения:
// второй счет для выезда -> ErrInvoiceAlreadyExists, занятый номер -> ErrNumberConflict
func (r *Repository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"intervention_id",
			"number",
			"issued_at",
			"client_name",
			"client_address",
			"client_email",
			"amount_ht",
			"tax_rate",
			"status",
			"payment_date",
			"payment_method",
			"service_description",
		).
		Values(
			inv.InterventionID,
			inv.Number,
			inv.IssuedAt,
			inv.Client.Name,
			inv.Client.Address,
			inv.Client.Email,
			inv.AmountHT,
			inv.TaxRate,
			inv.Status,
			inv.PaymentDate,
			inv.PaymentMethod,
			inv.ServiceSummary,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if name, ok := pgerr.UniqueViolation(err); ok {
			switch name {
			case constraintInterventionUnique:
				return nil, fmt.Errorf("%w: intervention_id=%d", ErrInvoiceAlreadyExists, inv.InterventionID)
			case constraintNumberUnique:
				return nil, fmt.Errorf("%w: number=%s", ErrNumberConflict, inv.Number)
			}
		}
		if _, ok := pgerr.ForeignKeyViolation(err); ok {
			return nil, fmt.Errorf("%w: intervention_id=%d", ErrInterventionMissing, inv.InterventionID)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return inv, nil
}

// GetByInterventionID получает счет выезда
func (r *Repository) GetByInterventionID(ctx context.Context, interventionID int64) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"intervention_id": interventionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByInterventionID - build select query: %v", ErrBuildQuery, err)
	}

	inv, err := scan(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("%w: GetByInterventionID - scan: %v", ErrScanRow, err)
	}

	return inv, nil
}

// DeleteByInterventionID удаляет счет выезда; отсутствие счета не ошибка
func (r *Repository) DeleteByInterventionID(ctx context.Context, interventionID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"intervention_id": interventionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByInterventionID - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByInterventionID - execute: %v", ErrExecQuery, err)
	}

	return nil
}

// CountIssuedBetween количество счетов с датой выставления в [from, to)
func (r *Repository) CountIssuedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.GtOrEq{"issued_at": from}).
		Where(squirrel.Lt{"issued_at": to}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountIssuedBetween - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountIssuedBetween - scan: %v", ErrScanRow, err)
	}

	return count, nil
}

func scan(row *sql.Row) (*domain.Invoice, error) {
	var (
		inv            domain.Invoice
		status         string
		paymentDate    sql.NullTime
		paymentMethod  sql.NullString
		serviceSummary sql.NullString
	)

	err := row.Scan(
		&inv.ID,
		&inv.InterventionID,
		&inv.Number,
		&inv.IssuedAt,
		&inv.Client.Name,
		&inv.Client.Address,
		&inv.Client.Email,
		&inv.AmountHT,
		&inv.TaxRate,
		&status,
		&paymentDate,
		&paymentMethod,
		&serviceSummary,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.Status = domain.InvoiceStatus(status)
	if paymentDate.Valid {
		inv.PaymentDate = &paymentDate.Time
	}
	if paymentMethod.Valid {
		inv.PaymentMethod = &paymentMethod.String
	}
	if serviceSummary.Valid {
		inv.ServiceSummary = &serviceSummary.String
	}

	return &inv, nil
}
