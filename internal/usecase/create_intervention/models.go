package create_intervention

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

// Request модель запроса на создание выезда
type Request struct {
	ComplaintID    int64
	TechnicianID   int64
	TechnicianName string
	ScheduledAt    *time.Time // по умолчанию текущее время
	Status         *string    // по умолчанию PLANIFIEE
	Description    *string
	Observations   *string
	Solution       *string
	PartsCost      *decimal.Decimal // если не задано, оценивается по каталогу
	LaborCost      *decimal.Decimal // если не задано, ставка по умолчанию
	CompletedAt    *time.Time
}

// Response созданный выезд и, если он сразу завершен и платный, его счет
type Response struct {
	Intervention *domain.Intervention
	Invoice      *domain.Invoice
}

// interventionCreatedPayload тело события intervention.created
type interventionCreatedPayload struct {
	InterventionID int64  `json:"interventionId"`
	ComplaintID    int64  `json:"complaintId"`
	TechnicianID   int64  `json:"technicianId"`
	TechnicianName string `json:"technicianName"`
	ScheduledAt    string `json:"scheduledAt"`
	Status         string `json:"status"`
	IsFree         bool   `json:"isFree"`
}
