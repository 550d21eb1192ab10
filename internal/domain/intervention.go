package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterventionStatus статус выезда техника
type InterventionStatus string

const (
	InterventionPlanned    InterventionStatus = "PLANIFIEE"
	InterventionInProgress InterventionStatus = "EN_COURS"
	InterventionCompleted  InterventionStatus = "TERMINEE"
	InterventionCancelled  InterventionStatus = "ANNULEE"
)

// Intervention выезд техника по одной рекламации
// Производные значения (итоговая стоимость, просрочка, длительность) не хранятся, а считаются методами
type Intervention struct {
	ID             int64
	ComplaintID    int64
	TechnicianID   int64
	TechnicianName string
	ScheduledAt    time.Time
	Status         InterventionStatus

	Description  *string
	Observations *string
	Solution     *string

	PartsCost *decimal.Decimal
	LaborCost *decimal.Decimal
	IsFree    bool

	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalCost сумма запчастей и работы; nil, если не задано ни одно из слагаемых
func (i *Intervention) TotalCost() *decimal.Decimal {
	if i.PartsCost == nil && i.LaborCost == nil {
		return nil
	}
	total := decimal.Zero
	if i.PartsCost != nil {
		total = total.Add(*i.PartsCost)
	}
	if i.LaborCost != nil {
		total = total.Add(*i.LaborCost)
	}
	return &total
}

// IsLate true, если выезд всё ещё запланирован спустя lateAfter после назначенного времени
func (i *Intervention) IsLate(now time.Time, lateAfter time.Duration) bool {
	return i.Status == InterventionPlanned && i.ScheduledAt.Before(now.Add(-lateAfter))
}

// DurationMinutes длительность выезда в минутах, только если задано время завершения
func (i *Intervention) DurationMinutes() *int64 {
	if i.CompletedAt == nil {
		return nil
	}
	minutes := int64(i.CompletedAt.Sub(i.ScheduledAt) / time.Minute)
	return &minutes
}

// MarkFree помечает выезд гарантийным: обе стоимости принудительно обнуляются
func (i *Intervention) MarkFree() {
	zeroParts := decimal.Zero
	zeroLabor := decimal.Zero
	i.IsFree = true
	i.PartsCost = &zeroParts
	i.LaborCost = &zeroLabor
}

// Normalize восстанавливает инвариант гарантии после любого изменения полей
func (i *Intervention) Normalize() {
	if i.IsFree {
		i.MarkFree()
	}
}

// IsBillable выезд не покрыт гарантией
func (i *Intervention) IsBillable() bool {
	return !i.IsFree
}

// IsCompleted выезд завершен
func (i *Intervention) IsCompleted() bool {
	return i.Status == InterventionCompleted
}

// IsTerminal выезд в конечном статусе
func (i *Intervention) IsTerminal() bool {
	return i.Status == InterventionCompleted || i.Status == InterventionCancelled
}

// CanBeInvoiced выезд завершен и не гарантийный
func (i *Intervention) CanBeInvoiced() bool {
	return i.IsBillable() && i.IsCompleted()
}
