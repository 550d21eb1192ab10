package transport

import "errors"

var (
	// ErrInternal ошибка на стороне клиента (не удалось собрать запрос)
	ErrInternal = errors.New("transport: internal error")

	// ErrNotFound upstream вернул 404
	ErrNotFound = errors.New("transport: resource not found")

	// ErrInvalidResponse неожиданный статус 4xx или некорректное тело ответа
	ErrInvalidResponse = errors.New("transport: invalid response")

	// ErrUnavailable сетевая ошибка или 5xx
	ErrUnavailable = errors.New("transport: upstream unavailable")

	// ErrTimeout истек таймаут запроса
	ErrTimeout = errors.New("transport: upstream timeout")
)

// IsRetryable ошибка временная: есть смысл повторить запрос
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}
