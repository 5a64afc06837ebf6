package get_available_units

import (
	"context"

	getAvailableUnits "github.com/apartmani-bj/booking-service/internal/usecase/get_available_units"
)

// GetAvailableUnitsUseCase интерфейс use case поиска доступных апартаментов
type GetAvailableUnitsUseCase interface {
	Execute(ctx context.Context, req *getAvailableUnits.Request) (*getAvailableUnits.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
