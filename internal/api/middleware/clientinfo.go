package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// FingerprintHeader заголовок с fingerprint браузера, проставляется фронтендом
const FingerprintHeader = "X-Device-Fingerprint"

type contextKey string

const (
	clientIPKey    contextKey = "client_ip"
	userAgentKey   contextKey = "user_agent"
	fingerprintKey contextKey = "fingerprint"
)

// ClientInfo извлекает IP, user agent и fingerprint клиента в контекст запроса.
// IP берется из первого значения X-Forwarded-For (сервис живет за прокси),
// иначе из X-Real-IP, иначе из RemoteAddr.
func ClientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if ip := clientIP(r); ip != "" {
			ctx = context.WithValue(ctx, clientIPKey, ip)
		}
		if ua := r.UserAgent(); ua != "" {
			ctx = context.WithValue(ctx, userAgentKey, ua)
		}
		if fp := r.Header.Get(FingerprintHeader); fp != "" {
			ctx = context.WithValue(ctx, fingerprintKey, fp)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP возвращает IP клиента из контекста
func GetClientIP(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(clientIPKey).(string)
	return v, ok
}

// GetUserAgent возвращает user agent клиента из контекста
func GetUserAgent(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userAgentKey).(string)
	return v, ok
}

// GetFingerprint возвращает fingerprint браузера из контекста
func GetFingerprint(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(fingerprintKey).(string)
	return v, ok
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
