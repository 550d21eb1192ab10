package articleservice

import "github.com/shopspring/decimal"

// Article артикул из каталога
type Article struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Reference       string          `json:"reference"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	IsUnderWarranty bool            `json:"isUnderWarranty"`
	PurchaseDate    *string         `json:"purchaseDate,omitempty"`
	WarrantyMonths  int             `json:"warrantyMonths"`
}

// warrantyEnvelope вариант ответа /warranty в виде объекта
type warrantyEnvelope struct {
	IsUnderWarranty *bool `json:"isUnderWarranty"`
	UnderWarranty   *bool `json:"underWarranty"`
}
