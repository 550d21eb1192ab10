package auto_invoice

import "github.com/m04kA/SAV-InterventionService/internal/domain"

// Триггеры выставления счета (метка метрики)
const (
	TriggerAuto   = "auto"
	TriggerManual = "manual"
)

// Result результат шага выставления счета
type Result struct {
	Invoice *domain.Invoice // nil, если счет не нужен
	Created bool            // false: счет уже был или выезд не подлежит оплате
}

// invoiceCreatedPayload тело события invoice.created
type invoiceCreatedPayload struct {
	InvoiceID      int64   `json:"invoiceId"`
	InterventionID int64   `json:"interventionId"`
	Number         string  `json:"numero"`
	AmountTTC      float64 `json:"montantTTC"`
	ClientName     string  `json:"clientNom"`
	ClientEmail    string  `json:"clientEmail"`
}
