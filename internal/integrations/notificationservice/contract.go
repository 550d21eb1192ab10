package notificationservice

import "context"

// HTTPClient исходящий JSON транспорт
type HTTPClient interface {
	PostJSON(ctx context.Context, path string, headers map[string]string, body interface{}, out interface{}) error
}
