package domain

import "time"

const (
	// DefaultFreeMarker отметка в описании выезда, покрытого гарантией
	DefaultFreeMarker = "[Intervention gratuite - article sous garantie]"

	// ClientNotSpecified подставляется в счет, если сервис клиентов недоступен
	ClientNotSpecified = "Client non spécifié"

	// AddressNotSpecified и EmailNotSpecified заглушки адреса и почты в том же случае
	AddressNotSpecified = "Adresse non spécifiée"
	EmailNotSpecified   = "Email non spécifié"

	// DefaultInvoicePrefix префикс номера счета
	DefaultInvoicePrefix = "FACT"

	// PeriodFormat формат периода нумерации счетов (yyyyMM)
	PeriodFormat = "200601"

	// DateFormat формат даты в описании услуги
	DateFormat = "02/01/2006"
)

// Стратегии генерации номера счета
const (
	NumberStrategySequence = "sequence"
	NumberStrategyRedis    = "redis"
	NumberStrategyCount    = "count"
)

// PeriodLocation часовой пояс, в котором считаются месяцы нумерации счетов
var PeriodLocation = time.UTC
