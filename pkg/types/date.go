package types

import (
	"errors"
	"time"
)

// DateLayout формат календарной даты (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// ErrInvalidDateFormat возвращается при некорректном формате даты
var ErrInvalidDateFormat = errors.New("invalid date string format, expected YYYY-MM-DD")

// DateString календарная дата без компонента времени ("2026-03-10").
// Используется в DTO и на границе API; внутри домена конвертируется в time.Time.
type DateString string

// NewDateString создает DateString из time.Time, отбрасывая время суток
func NewDateString(t time.Time) DateString {
	return DateString(t.Format(DateLayout))
}

// ParseDateString парсит и валидирует строку даты
func ParseDateString(s string) (DateString, error) {
	d := DateString(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Validate проверяет формат даты
func (d DateString) Validate() error {
	if _, err := time.Parse(DateLayout, string(d)); err != nil {
		return ErrInvalidDateFormat
	}
	return nil
}

// IsZero проверяет, что дата не задана
func (d DateString) IsZero() bool {
	return d == ""
}

// Time конвертирует дату в time.Time (полночь UTC).
// Для невалидной строки возвращает нулевое время.
func (d DateString) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Before сравнивает две даты
func (d DateString) Before(other DateString) bool {
	return d.Time().Before(other.Time())
}

// String возвращает строковое представление даты
func (d DateString) String() string {
	return string(d)
}
