package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = 1

// входящий X-Request-ID доверяем с оглядкой: обрезаем и не пускаем
// управляющие символы в логи и заголовки ответа
const maxRequestIDLen = 64

func sanitizeRequestID(rid string) string {
	rid = strings.TrimSpace(rid)
	if len(rid) > maxRequestIDLen {
		rid = rid[:maxRequestIDLen]
	}
	for _, r := range rid {
		if r < 0x20 || r == 0x7f {
			return ""
		}
	}
	return rid
}

func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := sanitizeRequestID(r.Header.Get("X-Request-ID"))
			if rid == "" {
				rid = uuid.NewString()
			}
			ctx := context.WithValue(r.Context(), requestIDKey, rid)
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetRequestID(r *http.Request) string {
	if v := r.Context().Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}
