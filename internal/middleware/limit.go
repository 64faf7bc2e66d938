package middleware

import "net/http"

// LimitBytes — жёсткий потолок на тело запроса: сканы счетов и выгрузки
// каталогов бывают большими, но не бесконечными.
func LimitBytes(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
