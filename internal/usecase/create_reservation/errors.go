package create_reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrConsentRequired возвращается, когда гость не дал согласие на обработку данных
	ErrConsentRequired = errors.New("privacy consent is required")

	// ErrUnitNotFound возвращается, когда апартамент не найден
	ErrUnitNotFound = errors.New("unit not found")

	// ErrDatesNotAvailable возвращается, когда запрошенные даты заняты
	ErrDatesNotAvailable = errors.New("requested dates are not available")

	// ErrRateLimited возвращается при превышении лимита попыток бронирования
	ErrRateLimited = errors.New("too many booking attempts")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("create_reservation: internal error")
)

// RateLimitedError отказ rate limiter с деталями для ответа клиенту
type RateLimitedError struct {
	Reason       string
	BlockedUntil *time.Time
}

func (e *RateLimitedError) Error() string {
	if e.BlockedUntil != nil {
		return fmt.Sprintf("%s, blocked until %s", e.Reason, e.BlockedUntil.Format(time.RFC3339))
	}
	return e.Reason
}

// Is позволяет распознавать отказ через errors.Is(err, ErrRateLimited)
func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
