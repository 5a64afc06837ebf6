package ratelimit

import "errors"

var (
	// ErrStoreUnavailable возвращается при ошибке обращения к Redis
	ErrStoreUnavailable = errors.New("ratelimit.store: store unavailable")
)
