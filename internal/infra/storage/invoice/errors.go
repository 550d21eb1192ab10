package invoice

import "errors"

var (
	// ErrInvoiceNotFound возвращается, когда счет не найден
	ErrInvoiceNotFound = errors.New("invoice.repository: invoice not found")

	// ErrInvoiceAlreadyExists у выезда уже есть счет (invoices_intervention_id_key)
	ErrInvoiceAlreadyExists = errors.New("invoice.repository: invoice already exists for intervention")

	// ErrNumberConflict номер счета уже занят (invoices_number_key)
	ErrNumberConflict = errors.New("invoice.repository: invoice number already used")

	// ErrInterventionMissing выезд удален до вставки счета
	ErrInterventionMissing = errors.New("invoice.repository: intervention does not exist")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("invoice.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("invoice.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("invoice.repository: failed to scan row")
)
