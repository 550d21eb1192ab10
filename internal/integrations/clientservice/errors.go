package clientservice

import "errors"

var (
	// ErrClientNotFound клиент не найден
	ErrClientNotFound = errors.New("clientservice: client not found")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Вызывающая сторона подставляет данные-заглушку
	ErrServiceDegraded = errors.New("clientservice unavailable: graceful degradation applied")
)
