package update_intervention

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

// Request изменяемые поля выезда; nil оставляет текущее значение
type Request struct {
	TechnicianID   *int64
	TechnicianName *string
	ScheduledAt    *time.Time
	Status         *string
	Description    *string
	Observations   *string
	Solution       *string
	PartsCost      *decimal.Decimal
	LaborCost      *decimal.Decimal
	IsFree         *bool
	CompletedAt    *time.Time
}

// Response обновленный выезд и счет, если он был выставлен этим или прошлым вызовом
type Response struct {
	Intervention *domain.Intervention
	Invoice      *domain.Invoice
}
