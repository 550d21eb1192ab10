package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingRules бизнес-константы расчета стоимости и выставления счетов
type BillingRules struct {
	PartsRate         decimal.Decimal // доля цены покупки артикула для оценки запчастей
	MinPartsCost      decimal.Decimal // нижняя граница оценки запчастей
	FallbackPartsCost decimal.Decimal // оценка, если каталог недоступен
	DefaultLaborCost  decimal.Decimal
	TaxRate           decimal.Decimal
	FreeMarker        string // дописывается к описанию гарантийного выезда
	LateAfter         time.Duration
}

// DefaultBillingRules значения, действующие в бизнесе сейчас
func DefaultBillingRules() BillingRules {
	return BillingRules{
		PartsRate:         decimal.RequireFromString("0.2"),
		MinPartsCost:      decimal.NewFromInt(10),
		FallbackPartsCost: decimal.NewFromInt(30),
		DefaultLaborCost:  decimal.NewFromInt(50),
		TaxRate:           decimal.RequireFromString("0.19"),
		FreeMarker:        DefaultFreeMarker,
		LateAfter:         24 * time.Hour,
	}
}
