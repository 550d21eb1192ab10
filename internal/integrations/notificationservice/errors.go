package notificationservice

import "errors"

var (
	// ErrRejected сервис уведомлений отклонил событие (4xx); повтор не поможет
	ErrRejected = errors.New("notificationservice: notification rejected")
)
