package ratelimit

import "errors"

var (
	// ErrInvalidKind возвращается при запросе статуса неизвестного вида идентификатора
	ErrInvalidKind = errors.New("ratelimit.service: invalid identifier kind")

	// ErrInternal возвращается при внутренней ошибке сервиса
	ErrInternal = errors.New("ratelimit.service: internal error")
)
