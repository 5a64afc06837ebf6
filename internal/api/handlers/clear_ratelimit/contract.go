package clear_ratelimit

import "context"

// RateLimitService интерфейс сервиса rate limiting
type RateLimitService interface {
	Clear(ctx context.Context, kind string, identifier string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
