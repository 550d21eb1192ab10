package get_invoice

import (
	"context"

	"github.com/m04kA/SAV-InterventionService/internal/service/interventions/models"
)

type InvoiceService interface {
	GetInvoice(ctx context.Context, interventionID int64) (*models.InvoiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
