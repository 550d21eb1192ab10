package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus статус счета
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "EN_ATTENTE"
	InvoicePaid      InvoiceStatus = "PAYEE"
	InvoiceCancelled InvoiceStatus = "ANNULEE"
)

// ClientSnapshot данные клиента на момент выставления счета
// Это копия, а не ссылка: последующие изменения клиента не меняют счет
type ClientSnapshot struct {
	Name    string
	Address string
	Email   string
}

// Invoice счет за выезд; не более одного на выезд
type Invoice struct {
	ID             int64
	InterventionID int64
	Number         string
	IssuedAt       time.Time
	Client         ClientSnapshot

	AmountHT decimal.Decimal
	TaxRate  decimal.Decimal
	Status   InvoiceStatus

	PaymentDate    *time.Time
	PaymentMethod  *string
	ServiceSummary *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AmountTTC сумма с налогом: HT * (1 + ставка)
func (i *Invoice) AmountTTC() decimal.Decimal {
	return i.AmountHT.Mul(decimal.NewFromInt(1).Add(i.TaxRate))
}

// TaxAmount сумма налога
func (i *Invoice) TaxAmount() decimal.Decimal {
	return i.AmountHT.Mul(i.TaxRate)
}
