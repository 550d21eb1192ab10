package invoicenumber

import (
	"context"
	"time"
)

// Counter выдает порядковый номер счета внутри периода (yyyyMM)
type Counter interface {
	Next(ctx context.Context, period string) (int64, error)
}

// InvoiceCounter считает уже выставленные счета за интервал [from, to)
type InvoiceCounter interface {
	CountIssuedBetween(ctx context.Context, from, to time.Time) (int64, error)
}
