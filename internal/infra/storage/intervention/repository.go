package intervention

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	"github.com/m04kA/SAV-InterventionService/internal/infra/storage/pgerr"
	"github.com/m04kA/SAV-InterventionService/pkg/dbmetrics"
	"github.com/m04kA/SAV-InterventionService/pkg/psqlbuilder"
)

const table = "interventions"

var columns = []string{
	"id",
	"complaint_id",
	"technician_id",
	"technician_name",
	"scheduled_at",
	"status",
	"description",
	"observations",
	"solution",
	"parts_cost",
	"labor_cost",
	"is_free",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий выездов
// Производные значения (итог, просрочка, длительность) в таблице не хранятся
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория выездов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет выезд. Если в контексте есть транзакция, использует её
func (r *Repository) Create(ctx context.Context, i *domain.Intervention) (*domain.Intervention, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"complaint_id",
			"technician_id",
			"technician_name",
			"scheduled_at",
			"status",
			"description",
			"observations",
			"solution",
			"parts_cost",
			"labor_cost",
			"is_free",
			"completed_at",
		).
		Values(
			i.ComplaintID,
			i.TechnicianID,
			i.TechnicianName,
			i.ScheduledAt,
			i.Status,
			i.Description,
			i.Observations,
			i.Solution,
			nullDecimal(i.PartsCost),
			nullDecimal(i.LaborCost),
			i.IsFree,
			i.CompletedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, mapWriteError("Create", err)
	}

	return i, nil
}

// GetByID получает выезд по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Intervention, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate получает выезд с блокировкой строки до конца транзакции
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Intervention, error) {
	return r.get(ctx, id, true)
}

func (r *Repository) get(ctx context.Context, id int64, forUpdate bool) (*domain.Intervention, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	i, err := scan(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInterventionNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan: %v", ErrScanRow, err)
	}

	return i, nil
}

// Update перезаписывает изменяемые поля выезда
func (r *Repository) Update(ctx context.Context, i *domain.Intervention) (*domain.Intervention, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("technician_id", i.TechnicianID).
		Set("technician_name", i.TechnicianName).
		Set("scheduled_at", i.ScheduledAt).
		Set("status", i.Status).
		Set("description", i.Description).
		Set("observations", i.Observations).
		Set("solution", i.Solution).
		Set("parts_cost", nullDecimal(i.PartsCost)).
		Set("labor_cost", nullDecimal(i.LaborCost)).
		Set("is_free", i.IsFree).
		Set("completed_at", i.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": i.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInterventionNotFound
		}
		return nil, mapWriteError("Update", err)
	}

	return i, nil
}

// Delete удаляет выезд; счет удаляется каскадно (ON DELETE CASCADE)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrInterventionNotFound
	}

	return nil
}

func scan(row *sql.Row) (*domain.Intervention, error) {
	var (
		i            domain.Intervention
		description  sql.NullString
		observations sql.NullString
		solution     sql.NullString
		partsCost    decimal.NullDecimal
		laborCost    decimal.NullDecimal
		completedAt  sql.NullTime
		status       string
	)

	err := row.Scan(
		&i.ID,
		&i.ComplaintID,
		&i.TechnicianID,
		&i.TechnicianName,
		&i.ScheduledAt,
		&status,
		&description,
		&observations,
		&solution,
		&partsCost,
		&laborCost,
		&i.IsFree,
		&completedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	i.Status = domain.InterventionStatus(status)
	i.Description = nullString(description)
	i.Observations = nullString(observations)
	i.Solution = nullString(solution)
	if partsCost.Valid {
		i.PartsCost = &partsCost.Decimal
	}
	if laborCost.Valid {
		i.LaborCost = &laborCost.Decimal
	}
	if completedAt.Valid {
		i.CompletedAt = &completedAt.Time
	}

	return &i, nil
}

func mapWriteError(op string, err error) error {
	if name, ok := pgerr.CheckViolation(err); ok {
		return fmt.Errorf("%w: %s - %s", ErrConstraint, op, name)
	}
	return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
