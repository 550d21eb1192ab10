package clientservice

import "context"

// HTTPClient исходящий JSON транспорт
type HTTPClient interface {
	GetJSON(ctx context.Context, path string, out interface{}) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
