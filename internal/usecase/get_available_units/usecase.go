package get_available_units

import (
	"context"
	"fmt"
	"time"

	"github.com/apartmani-bj/booking-service/internal/domain"
	"github.com/apartmani-bj/booking-service/pkg/i18n"
)

// UseCase use case поиска апартаментов, свободных на запрошенные даты
type UseCase struct {
	units        UnitRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(units UnitRepository, logger Logger) *UseCase {
	return &UseCase{
		units:        units,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает апартаменты без активных бронирований на запрошенный
// диапазон дат, отсортированные по возрастанию тарифа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	checkIn, checkOut, err := validateDates(req.CheckIn, req.CheckOut, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("GetAvailableUnits: validation failed: %v", err)
		return nil, err
	}

	units, err := uc.units.ListAvailable(ctx, checkIn, checkOut)
	if err != nil {
		uc.logger.Error("GetAvailableUnits: repository error: %v", err)
		return nil, fmt.Errorf("%w: failed to list units: %v", ErrInternal, err)
	}

	language := i18n.ParseLocale(req.Language)
	nights := domain.Nights(checkIn, checkOut)

	items := make([]UnitResponse, 0, len(units))
	for _, u := range units {
		items = append(items, UnitResponse{
			ID:            u.ID,
			Name:          u.Name.Get(language),
			Type:          u.Type,
			Capacity:      u.Capacity,
			PricePerNight: u.BasePriceEUR,
			Nights:        nights,
			TotalPrice:    float64(nights) * u.BasePriceEUR,
		})
	}

	uc.logger.Info("GetAvailableUnits: %d units available for %s..%s",
		len(items), req.CheckIn, req.CheckOut)

	return &Response{
		CheckIn:  checkIn.Format(domain.DateFormat),
		CheckOut: checkOut.Format(domain.DateFormat),
		Units:    items,
	}, nil
}

func validateDates(checkInRaw, checkOutRaw string, now time.Time) (time.Time, time.Time, error) {
	if checkInRaw == "" || checkOutRaw == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkIn and checkOut are required", ErrInvalidInput)
	}

	checkIn, err := time.Parse(domain.DateFormat, checkInRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkIn must be a valid date (YYYY-MM-DD)", ErrInvalidInput)
	}
	checkOut, err := time.Parse(domain.DateFormat, checkOutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkOut must be a valid date (YYYY-MM-DD)", ErrInvalidInput)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkIn cannot be in the past", ErrInvalidInput)
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkOut must be after checkIn", ErrInvalidInput)
	}

	return checkIn, checkOut, nil
}
