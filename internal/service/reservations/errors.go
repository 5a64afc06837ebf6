package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrUnitNotFound возвращается, когда апартамент бронирования не найден
	ErrUnitNotFound = errors.New("unit not found")

	// ErrDatesConflict возвращается, когда новые даты пересекаются с другим бронированием
	ErrDatesConflict = errors.New("dates conflict with an existing reservation")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCannotCancel возвращается, когда бронирование нельзя отменить из текущего статуса
	ErrCannotCancel = errors.New("reservation cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
