// Package authctx переносит bearer-токен входящего запроса в исходящие вызовы.
// Сервис токены не выпускает и не проверяет.
package authctx

import "context"

type tokenKey struct{}

// WithBearer кладет токен (без префикса "Bearer ") в контекст
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Bearer достает токен из контекста
func Bearer(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}
