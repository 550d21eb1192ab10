package create_intervention

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/service/interventions/models"
	createIntervention "github.com/m04kA/SAV-InterventionService/internal/usecase/create_intervention"
)

// CreateInterventionRequest HTTP request model
type CreateInterventionRequest struct {
	ComplaintID    int64            `json:"complaintId"`
	TechnicianID   int64            `json:"technicianId"`
	TechnicianName string           `json:"technicianName"`
	ScheduledAt    *string          `json:"scheduledAt,omitempty"` // RFC3339
	Status         *string          `json:"status,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Observations   *string          `json:"observations,omitempty"`
	Solution       *string          `json:"solution,omitempty"`
	PartsCost      *decimal.Decimal `json:"partsCost,omitempty"`
	LaborCost      *decimal.Decimal `json:"laborCost,omitempty"`
	CompletedAt    *string          `json:"completedAt,omitempty"`
}

// InterventionResponse HTTP response model: выезд и счет, если он выставлен сразу
type InterventionResponse struct {
	*models.InterventionResponse
	Invoice *models.InvoiceResponse `json:"invoice,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateInterventionRequest) ToUseCaseRequest() (*createIntervention.Request, error) {
	scheduledAt, err := parseTime(r.ScheduledAt)
	if err != nil {
		return nil, err
	}
	completedAt, err := parseTime(r.CompletedAt)
	if err != nil {
		return nil, err
	}

	return &createIntervention.Request{
		ComplaintID:    r.ComplaintID,
		TechnicianID:   r.TechnicianID,
		TechnicianName: r.TechnicianName,
		ScheduledAt:    scheduledAt,
		Status:         r.Status,
		Description:    r.Description,
		Observations:   r.Observations,
		Solution:       r.Solution,
		PartsCost:      r.PartsCost,
		LaborCost:      r.LaborCost,
		CompletedAt:    completedAt,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createIntervention.Response, now time.Time, lateAfter time.Duration) *InterventionResponse {
	out := &InterventionResponse{
		InterventionResponse: models.FromDomainIntervention(resp.Intervention, now, lateAfter),
	}
	if resp.Invoice != nil {
		out.Invoice = models.FromDomainInvoice(resp.Invoice)
	}
	return out
}

func parseTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
