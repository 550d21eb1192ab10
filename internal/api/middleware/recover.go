package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/m04kA/SAV-InterventionService/internal/api/handlers"
)

// Recover превращает панику обработчика в 500
func Recover(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("%s %s - Panic: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
					w.Header().Set("Connection", "close")
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
