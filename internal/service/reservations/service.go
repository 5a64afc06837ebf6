package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/domain"
	guestRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/guest"
	reservationRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/reservation"
	unitRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/unit"
	"github.com/apartmani-bj/booking-service/internal/integrations/notifier"
	"github.com/apartmani-bj/booking-service/internal/service/reservations/models"
)

const notifyTimeout = 10 * time.Second

// Service сервис управления жизненным циклом бронирований.
// Создание новых бронирований живет в отдельном usecase,
// здесь чтение, обновление, отмена и удаление.
type Service struct {
	reservations ReservationRepository
	guests       GuestRepository
	units        UnitRepository
	notify       NotificationClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservations ReservationRepository,
	guests GuestRepository,
	units UnitRepository,
	notify NotificationClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		reservations: reservations,
		guests:       guests,
		units:        units,
		notify:       notify,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование с данными апартамента и гостя
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ReservationResponse, error) {
	details, err := s.reservations.GetDetailsByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%s not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDetails(details), nil
}

// List получает страницу бронирований с фильтрацией.
// Фильтр по периоду отбирает бронирования, чей диапазон дат пересекается
// с запрошенным периодом.
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	items, total, err := s.reservations.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d of %d reservations (page=%d, limit=%d)",
		len(items), total, filter.Page, filter.Limit)
	return models.FromDetailsList(items, filter, total), nil
}

// Update обновляет бронирование: статус, даты, данные гостя, опции.
// Все присутствующие в запросе поля применяются в одной транзакции.
// Перенос дат пересчитывает стоимость по текущему тарифу апартамента
// с учетом обновленных опций. Обновление только опций цену не трогает:
// согласованная стоимость остается в силе, пока не меняются даты.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateReservationRequest) (*models.ReservationResponse, error) {
	upd, err := req.ToDomainUpdate()
	if err != nil {
		s.logger.Warn("Update: invalid request for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if upd.IsEmpty() {
		// Пустой запрос менять нечего, возвращаем текущее состояние
		return s.GetByID(ctx, id)
	}

	var notifyStatus *domain.ReservationStatus

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		res, err := s.reservations.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: Update - fetch reservation: %v", ErrInternal, err)
		}

		if upd.Status != nil && *upd.Status != res.Status {
			if !domain.CanTransition(res.Status, *upd.Status) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, *upd.Status)
			}
			if err := s.reservations.UpdateStatus(ctx, id, *upd.Status, s.timeProvider.Now()); err != nil {
				return fmt.Errorf("%w: Update - update status: %v", ErrInternal, err)
			}
			notifyStatus = upd.Status
		}

		options := res.Options
		note := res.Note
		if upd.Options != nil {
			options = upd.Options.Apply(res.Options)
			if upd.Options.Note != nil {
				note = upd.Options.Note
			}
			if err := s.reservations.UpdateOptions(ctx, id, options, note); err != nil {
				return fmt.Errorf("%w: Update - update options: %v", ErrInternal, err)
			}
		}

		if upd.HasDateChange() {
			if err := s.moveDates(ctx, res, upd, options); err != nil {
				return err
			}
		}

		if upd.Guest != nil {
			if err := s.guests.UpdatePartial(ctx, res.GuestID, *upd.Guest); err != nil {
				if errors.Is(err, guestRepo.ErrGuestNotFound) {
					return fmt.Errorf("%w: Update - guest record missing: %v", ErrInternal, err)
				}
				return fmt.Errorf("%w: Update - update guest: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		if isKnown(err) {
			s.logger.Warn("Update: rejected for reservation id=%s: %v", id, err)
		} else {
			s.logger.Error("Update: failed for reservation id=%s: %v", id, err)
		}
		return nil, err
	}

	details, err := s.reservations.GetDetailsByID(ctx, id)
	if err != nil {
		s.logger.Error("Update: failed to reload reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - reload reservation: %v", ErrInternal, err)
	}

	if notifyStatus != nil {
		s.dispatchLifecycleNotification(*notifyStatus, details)
	}

	s.logger.Info("Update: reservation id=%s (%s) updated", id, details.ReservationNumber)
	return models.FromDetails(details), nil
}

// Cancel отменяет бронирование, освобождая его даты.
// Мягкая отмена: строка остается в истории со статусом cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		res, err := s.reservations.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: Cancel - fetch reservation: %v", ErrInternal, err)
		}

		if !res.CanBeCancelled() {
			return fmt.Errorf("%w: status is %s", ErrCannotCancel, res.Status)
		}

		if err := s.reservations.UpdateStatus(ctx, id, domain.StatusCancelled, s.timeProvider.Now()); err != nil {
			return fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if isKnown(err) {
			s.logger.Warn("Cancel: rejected for reservation id=%s: %v", id, err)
		} else {
			s.logger.Error("Cancel: failed for reservation id=%s: %v", id, err)
		}
		return err
	}

	s.logger.Info("Cancel: reservation id=%s cancelled", id)
	return nil
}

// Delete физически удаляет бронирование. Административная операция
// для ошибочных записей; для обычной отмены использовать Cancel.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.reservations.Delete(ctx, id); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Delete: reservation id=%s not found", id)
			return ErrReservationNotFound
		}
		s.logger.Error("Delete: repository error for reservation id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: reservation id=%s deleted", id)
	return nil
}

// Вспомогательные методы

// moveDates переносит бронирование на новые даты. Недостающая граница
// берется из текущего бронирования, стоимость пересчитывается по текущему
// тарифу апартамента.
func (s *Service) moveDates(ctx context.Context, res *domain.Reservation, upd domain.ReservationUpdate, options domain.ReservationOptions) error {
	checkIn := res.CheckIn
	checkOut := res.CheckOut
	if upd.CheckIn != nil {
		checkIn = *upd.CheckIn

		// Перенос заезда валидируется как при создании; нетронутый заезд
		// не проверяется, чтобы не ломать продление текущего проживания
		now := s.timeProvider.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if checkIn.Before(today) {
			return fmt.Errorf("%w: check-in cannot be in the past", ErrInvalidInput)
		}
	}
	if upd.CheckOut != nil {
		checkOut = *upd.CheckOut
	}

	if !checkIn.Before(checkOut) {
		return fmt.Errorf("%w: check-out must be after check-in", ErrInvalidInput)
	}
	if domain.Nights(checkIn, checkOut) > domain.MaxStayNights {
		return fmt.Errorf("%w: stay cannot exceed %d nights", ErrInvalidInput, domain.MaxStayNights)
	}

	unit, err := s.units.GetByID(ctx, res.UnitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			return ErrUnitNotFound
		}
		return fmt.Errorf("%w: moveDates - fetch unit: %v", ErrInternal, err)
	}

	totalPrice := domain.TotalPrice(unit.BasePriceEUR, checkIn, checkOut, options)

	err = s.reservations.UpdateDates(ctx, res.ID, checkIn, checkOut, unit.BasePriceEUR, totalPrice)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrDatesConflict) {
			return ErrDatesConflict
		}
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("%w: moveDates - update dates: %v", ErrInternal, err)
	}
	return nil
}

// dispatchLifecycleNotification отправляет уведомление, соответствующее
// новому статусу. Отправка асинхронная: доставка писем не должна
// блокировать или ронять само обновление.
func (s *Service) dispatchLifecycleNotification(status domain.ReservationStatus, details *reservationRepo.Details) {
	info := notificationInfo(details)

	switch status {
	case domain.StatusConfirmed:
		s.dispatchAsync("reservation confirmed", func(ctx context.Context) error {
			return s.notify.NotifyReservationConfirmed(ctx, info)
		})
	case domain.StatusCheckedOut:
		s.dispatchAsync("review request", func(ctx context.Context) error {
			return s.notify.NotifyReviewRequested(ctx, info)
		})
	}
}

func (s *Service) dispatchAsync(name string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Error("notification %q failed: %v", name, err)
		}
	}()
}

func notificationInfo(d *reservationRepo.Details) notifier.ReservationInfo {
	return notifier.ReservationInfo{
		ID:                d.ID,
		ReservationNumber: d.ReservationNumber,
		UnitName:          d.UnitName.Get(d.Language),
		GuestName:         d.GuestName,
		GuestEmail:        d.GuestEmail,
		GuestPhone:        d.GuestPhone,
		CheckIn:           d.CheckIn,
		CheckOut:          d.CheckOut,
		TotalPrice:        d.TotalPrice,
		Language:          string(d.Language),
		Note:              d.Note,
	}
}

// isKnown различает бизнес-отказы и внутренние ошибки для уровня логирования
func isKnown(err error) bool {
	return errors.Is(err, ErrReservationNotFound) ||
		errors.Is(err, ErrUnitNotFound) ||
		errors.Is(err, ErrDatesConflict) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrCannotCancel) ||
		errors.Is(err, ErrInvalidInput)
}
