package create_intervention

import "errors"

var (
	// ErrComplaintNotFound рекламация не найдена (404)
	ErrComplaintNotFound = errors.New("create_intervention: complaint not found")

	// ErrComplaintUnavailable реестр рекламаций недоступен (502)
	ErrComplaintUnavailable = errors.New("create_intervention: complaint service unavailable")

	// ErrComplaintTimeout реестр рекламаций не ответил вовремя (504)
	ErrComplaintTimeout = errors.New("create_intervention: complaint service timeout")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_intervention: invalid input data")

	// ErrInvoiceNumberConflict выезд создан, но номер счета занят параллельной записью (409)
	ErrInvoiceNumberConflict = errors.New("create_intervention: invoice number conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_intervention: internal error")
)
