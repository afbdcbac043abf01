// Файл: internal/api/middleware.go
package api

import (
	"crypto/subtle"
	"net/http"
)

// SecretHeaderMiddleware сравнивает значение заголовка с ожидаемым секретом.
// Пустой секрет отключает проверку (об этом предупреждает LoadConfig).
func SecretHeaderMiddleware(header, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				got := r.Header.Get(header)
				if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
