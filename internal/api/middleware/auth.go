package middleware

import (
	"net/http"
	"strings"

	"github.com/m04kA/SAV-InterventionService/internal/api/handlers"
	"github.com/m04kA/SAV-InterventionService/pkg/authctx"
)

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "

	msgMissingToken = "отсутствует bearer-токен"
)

// Auth переносит bearer-токен в контекст запроса
// Токен не проверяется: его валидируют сервисы, которым он пересылается
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(headerAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				logger.Warn("%s %s - Missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			if token == "" {
				logger.Warn("%s %s - Empty bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(authctx.WithBearer(r.Context(), token)))
		})
	}
}
