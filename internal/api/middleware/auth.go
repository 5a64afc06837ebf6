// Package middleware содержит HTTP middleware: аутентификацию персонала,
// извлечение клиентского контекста и сбор метрик.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/apartmani-bj/booking-service/internal/api/handlers"
)

// AdminTokenHeader заголовок с токеном персонала
const AdminTokenHeader = "X-Admin-Token"

// Auth закрывает административные маршруты статическим токеном.
// Токен задается конфигурацией, сравнение за постоянное время.
func Auth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminTokenHeader)
			if provided == "" {
				handlers.RespondUnauthorized(w, "missing admin token")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				handlers.RespondForbidden(w, "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
