package intervention

import "errors"

var (
	// ErrInterventionNotFound возвращается, когда выезд не найден
	ErrInterventionNotFound = errors.New("intervention.repository: intervention not found")

	// ErrConstraint нарушено ограничение таблицы (отрицательная стоимость, даты и т.п.)
	ErrConstraint = errors.New("intervention.repository: constraint violation")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("intervention.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("intervention.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("intervention.repository: failed to scan row")
)
