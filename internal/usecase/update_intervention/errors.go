package update_intervention

import "errors"

var (
	// ErrInterventionNotFound возвращается, когда выезд не найден
	ErrInterventionNotFound = errors.New("update_intervention: intervention not found")

	// ErrInvalidInput возвращается при невалидных входных данных
	ErrInvalidInput = errors.New("update_intervention: invalid input")

	// ErrInvalidTransition переход статуса не разрешен
	ErrInvalidTransition = errors.New("update_intervention: invalid status transition")

	// ErrFreeWithInvoice выезд со счетом нельзя сделать гарантийным
	ErrFreeWithInvoice = errors.New("update_intervention: invoiced intervention cannot become free")

	// ErrWarrantyCovered гарантийный выезд нельзя сделать платным вручную
	ErrWarrantyCovered = errors.New("update_intervention: warranty-covered intervention cannot become billable")

	// ErrInvoiceNumberConflict коллизия номера счета при автоматическом выставлении
	ErrInvoiceNumberConflict = errors.New("update_intervention: invoice number conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_intervention: internal error")
)
