package notificationservice

import "encoding/json"

// Notification событие для сервиса уведомлений
type Notification struct {
	EventType string          `json:"eventType"`
	Payload   json.RawMessage `json:"payload"`
}
