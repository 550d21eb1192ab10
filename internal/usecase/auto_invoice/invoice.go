package auto_invoice

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

// buildInvoice счет на итоговую стоимость выезда (0, если стоимость не задана)
func buildInvoice(i *domain.Intervention, client domain.ClientSnapshot, number string, now time.Time, rules domain.BillingRules) *domain.Invoice {
	amount := decimal.Zero
	if total := i.TotalCost(); total != nil {
		amount = *total
	}

	summary := serviceSummary(i)

	return &domain.Invoice{
		InterventionID: i.ID,
		Number:         number,
		IssuedAt:       now,
		Client:         client,
		AmountHT:       amount.Round(2),
		TaxRate:        rules.TaxRate,
		Status:         domain.InvoicePending,
		ServiceSummary: &summary,
	}
}

// serviceSummary "Intervention du 02/03/2026 - описание - Solution : ..."
func serviceSummary(i *domain.Intervention) string {
	date := i.ScheduledAt
	if i.CompletedAt != nil {
		date = *i.CompletedAt
	}

	parts := []string{"Intervention du " + date.Format(domain.DateFormat)}
	if i.Description != nil && strings.TrimSpace(*i.Description) != "" {
		parts = append(parts, strings.TrimSpace(*i.Description))
	}
	if i.Solution != nil && strings.TrimSpace(*i.Solution) != "" {
		parts = append(parts, "Solution : "+strings.TrimSpace(*i.Solution))
	}
	return strings.Join(parts, " - ")
}
