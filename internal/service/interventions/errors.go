package interventions

import "errors"

var (
	// ErrInterventionNotFound возвращается, когда выезд не найден
	ErrInterventionNotFound = errors.New("intervention not found")

	// ErrInvoiceNotFound возвращается, когда у выезда нет счета
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
