package invoicenumber

import "errors"

var (
	// ErrCounter не удалось получить порядковый номер
	ErrCounter = errors.New("invoicenumber: counter failure")
)
