package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

// Response модели

// InterventionResponse выезд с производными полями, посчитанными на момент ответа
type InterventionResponse struct {
	ID              int64    `json:"id"`
	ComplaintID     int64    `json:"complaintId"`
	TechnicianID    int64    `json:"technicianId"`
	TechnicianName  string   `json:"technicianName"`
	ScheduledAt     string   `json:"scheduledAt"`
	Status          string   `json:"status"`
	Description     *string  `json:"description,omitempty"`
	Observations    *string  `json:"observations,omitempty"`
	Solution        *string  `json:"solution,omitempty"`
	PartsCost       *float64 `json:"partsCost"`
	LaborCost       *float64 `json:"laborCost"`
	TotalCost       *float64 `json:"totalCost"`
	IsFree          bool     `json:"isFree"`
	CompletedAt     *string  `json:"completedAt,omitempty"`
	IsLate          bool     `json:"isLate"`
	DurationMinutes *int64   `json:"durationMinutes,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// InvoiceResponse счет; суммы под французскими именами полей (montantHT, tva, montantTTC)
// Денежные поля округлены до центов (half away from zero).
// montantTTCExact несет точное значение montantHT × (1 + tva) без округления
type InvoiceResponse struct {
	ID                 int64   `json:"id"`
	InterventionID     int64   `json:"interventionId"`
	Number             string  `json:"numero"`
	IssuedAt           string  `json:"dateEmission"`
	ClientName         string  `json:"clientNom"`
	ClientAddress      string  `json:"clientAdresse"`
	ClientEmail        string  `json:"clientEmail"`
	AmountHT           float64 `json:"montantHT"`
	TaxRate            float64 `json:"tva"`
	TaxAmount          float64 `json:"montantTVA"`
	AmountTTC          float64 `json:"montantTTC"`
	AmountTTCExact     string  `json:"montantTTCExact"`
	Status             string  `json:"statut"`
	PaymentDate        *string `json:"datePaiement,omitempty"`
	PaymentMethod      *string `json:"modePaiement,omitempty"`
	ServiceDescription *string `json:"descriptionService,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromDomainIntervention конвертирует выезд в ответ
func FromDomainIntervention(i *domain.Intervention, now time.Time, lateAfter time.Duration) *InterventionResponse {
	resp := &InterventionResponse{
		ID:              i.ID,
		ComplaintID:     i.ComplaintID,
		TechnicianID:    i.TechnicianID,
		TechnicianName:  i.TechnicianName,
		ScheduledAt:     i.ScheduledAt.Format(time.RFC3339),
		Status:          string(i.Status),
		Description:     i.Description,
		Observations:    i.Observations,
		Solution:        i.Solution,
		PartsCost:       money(i.PartsCost),
		LaborCost:       money(i.LaborCost),
		TotalCost:       money(i.TotalCost()),
		IsFree:          i.IsFree,
		IsLate:          i.IsLate(now, lateAfter),
		DurationMinutes: i.DurationMinutes(),
		CreatedAt:       i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       i.UpdatedAt.Format(time.RFC3339),
	}
	if i.CompletedAt != nil {
		completed := i.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}

// FromDomainInvoice конвертирует счет в ответ
func FromDomainInvoice(inv *domain.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:                 inv.ID,
		InterventionID:     inv.InterventionID,
		Number:             inv.Number,
		IssuedAt:           inv.IssuedAt.Format("2006-01-02"),
		ClientName:         inv.Client.Name,
		ClientAddress:      inv.Client.Address,
		ClientEmail:        inv.Client.Email,
		AmountHT:           inv.AmountHT.Round(2).InexactFloat64(),
		TaxRate:            inv.TaxRate.InexactFloat64(),
		TaxAmount:          inv.TaxAmount().Round(2).InexactFloat64(),
		AmountTTC:          inv.AmountTTC().Round(2).InexactFloat64(),
		AmountTTCExact:     inv.AmountTTC().String(),
		Status:             string(inv.Status),
		PaymentMethod:      inv.PaymentMethod,
		ServiceDescription: inv.ServiceSummary,
		CreatedAt:          inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          inv.UpdatedAt.Format(time.RFC3339),
	}
	if inv.PaymentDate != nil {
		paid := inv.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &paid
	}
	return resp
}

func money(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := d.Round(2).InexactFloat64()
	return &v
}
