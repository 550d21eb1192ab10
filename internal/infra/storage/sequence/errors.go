package sequence

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("sequence: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("sequence: failed to execute query")

	// ErrRedis возвращается при ошибке Redis
	ErrRedis = errors.New("sequence: redis error")
)
