package domain

import (
	"encoding/json"
	"time"
)

// OutboxStatus статус события в outbox
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

// Типы событий для сервиса уведомлений
const (
	EventInterventionCreated = "intervention.created"
	EventInvoiceCreated      = "invoice.created"
)

// OutboxEvent событие, которое нужно доставить в сервис уведомлений
type OutboxEvent struct {
	ID            int64
	Key           string // ключ идемпотентности для получателя
	EventType     string
	Payload       json.RawMessage
	Status        OutboxStatus
	Attempts      int
	NextAttemptAt time.Time
	LastError     *string
	CreatedAt     time.Time
	SentAt        *time.Time
}
