package create_invoice

import (
	"context"

	"github.com/m04kA/SAV-InterventionService/internal/usecase/auto_invoice"
)

type CreateInvoiceUseCase interface {
	Execute(ctx context.Context, interventionID int64) (*auto_invoice.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
