package auto_invoice

import "errors"

var (
	// ErrInterventionNotFound возвращается, когда выезд не найден
	ErrInterventionNotFound = errors.New("auto_invoice: intervention not found")

	// ErrNotEligible выезд гарантийный или еще не завершен
	ErrNotEligible = errors.New("auto_invoice: intervention is not eligible for invoicing")

	// ErrInvoiceAlreadyExists у выезда уже есть счет
	ErrInvoiceAlreadyExists = errors.New("auto_invoice: invoice already exists")

	// ErrInvoiceNumberConflict два писателя получили один номер; шаг можно повторить
	ErrInvoiceNumberConflict = errors.New("auto_invoice: invoice number conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("auto_invoice: internal error")
)
