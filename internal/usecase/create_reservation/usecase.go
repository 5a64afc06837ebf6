package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/domain"
	reservationRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/reservation"
	unitRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/unit"
	"github.com/apartmani-bj/booking-service/internal/integrations/notifier"
	"github.com/apartmani-bj/booking-service/pkg/i18n"
)

const notifyTimeout = 10 * time.Second

// UseCase use case для создания бронирования через публичный API
type UseCase struct {
	reservations ReservationRepository
	guests       GuestRepository
	units        UnitRepository
	limiter      RateLimiter
	notify       NotificationClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	guests GuestRepository,
	units UnitRepository,
	limiter RateLimiter,
	notify NotificationClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		guests:       guests,
		units:        units,
		limiter:      limiter,
		notify:       notify,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет сценарий создания бронирования.
// Гонка за одни даты разрешается на стороне БД: вставка и проверка
// пересечения выполняются одним оператором в сериализуемой транзакции,
// из двух конкурентных заявок проходит ровно одна.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()

	// 1. Валидация и нормализация входных данных
	validated, err := validateRequest(req, now)
	if err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateReservation: unit=%s, email=%s, dates=%s..%s",
		validated.unitID, validated.guestEmail,
		validated.checkIn.Format(domain.DateFormat), validated.checkOut.Format(domain.DateFormat))

	// 2. Rate limiting по IP, email и fingerprint
	decision := uc.limiter.Check(ctx, derefOrEmpty(req.IPAddress), validated.guestEmail, derefOrEmpty(req.Fingerprint))
	if !decision.Allowed {
		uc.logger.Warn("CreateReservation: rate limited, email=%s: %s", validated.guestEmail, decision.Reason)
		return nil, &RateLimitedError{Reason: decision.Reason, BlockedUntil: decision.BlockedUntil}
	}

	// 3. Апартамент и его текущий тариф
	unit, err := uc.units.GetByID(ctx, validated.unitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			uc.logger.Warn("CreateReservation: unit id=%s not found", validated.unitID)
			return nil, ErrUnitNotFound
		}
		uc.logger.Error("CreateReservation: failed to get unit id=%s: %v", validated.unitID, err)
		return nil, fmt.Errorf("%w: failed to get unit: %v", ErrInternal, err)
	}

	// 4. Быстрая проверка доступности до открытия транзакции.
	// Не гарантия (окончательную проверку делает вставка), но дешевый
	// отказ для заведомо занятых дат.
	available, err := uc.reservations.CheckAvailability(ctx, validated.unitID, validated.checkIn, validated.checkOut, nil)
	if err != nil {
		uc.logger.Error("CreateReservation: availability check failed: %v", err)
		return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
	}
	if !available {
		uc.logger.Warn("CreateReservation: dates %s..%s not available for unit=%s",
			validated.checkIn.Format(domain.DateFormat), validated.checkOut.Format(domain.DateFormat), validated.unitID)
		return nil, ErrDatesNotAvailable
	}

	language := i18n.ParseLocale(req.Language)
	totalPrice := domain.TotalPrice(unit.BasePriceEUR, validated.checkIn, validated.checkOut, validated.options)

	var created *domain.Reservation
	var guest *domain.Guest

	// 5. Гость и бронирование в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		guest, err = uc.guests.UpsertByEmail(txCtx, validated.guestName, validated.guestEmail, validated.guestPhone, language)
		if err != nil {
			uc.logger.Error("CreateReservation: guest upsert failed for email=%s: %v", validated.guestEmail, err)
			return fmt.Errorf("%w: guest upsert failed: %v", ErrInternal, err)
		}

		reservation := &domain.Reservation{
			ID:                uuid.New(),
			ReservationNumber: domain.GenerateReservationNumber(now),
			UnitID:            validated.unitID,
			GuestID:           guest.ID,
			CheckIn:           validated.checkIn,
			CheckOut:          validated.checkOut,
			PricePerNight:     unit.BasePriceEUR,
			TotalPrice:        totalPrice,
			Status:            domain.StatusPending,
			Options:           validated.options,
			Note:              validated.note,
			Source:            domain.SourceWebsite,
			Language:          language,
			Security: domain.SecurityMetadata{
				IPAddress:        req.IPAddress,
				UserAgent:        truncateUserAgent(req.UserAgent),
				Fingerprint:      req.Fingerprint,
				ConsentGiven:     true,
				ConsentTimestamp: &now,
			},
			RequestedAt: now,
		}

		created, err = uc.reservations.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrDatesConflict) {
				return ErrDatesNotAvailable
			}
			uc.logger.Error("CreateReservation: insert failed: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDatesNotAvailable) {
			uc.logger.Warn("CreateReservation: dates taken during insert, unit=%s", validated.unitID)
		}
		return nil, err
	}

	// 6. Успешное бронирование сбрасывает счетчики rate limiter
	uc.limiter.RecordSuccess(ctx, derefOrEmpty(req.IPAddress), validated.guestEmail, derefOrEmpty(req.Fingerprint))

	// 7. Уведомление администратору, асинхронно
	uc.dispatchAdminNotification(created, guest, unit)

	uc.logger.Info("CreateReservation: created %s (id=%s) for unit=%s",
		created.ReservationNumber, created.ID, created.UnitID)

	return buildResponse(created, guest, unit), nil
}

// dispatchAdminNotification отправляет событие о новой заявке.
// Сбой доставки не влияет на результат бронирования.
func (uc *UseCase) dispatchAdminNotification(res *domain.Reservation, guest *domain.Guest, unit *domain.Unit) {
	info := notifier.ReservationInfo{
		ID:                res.ID,
		ReservationNumber: res.ReservationNumber,
		UnitName:          unit.Name.Get(res.Language),
		GuestName:         guest.FullName,
		GuestEmail:        guest.Email,
		GuestPhone:        guest.Phone,
		CheckIn:           res.CheckIn,
		CheckOut:          res.CheckOut,
		TotalPrice:        res.TotalPrice,
		Language:          string(res.Language),
		Note:              res.Note,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notify.NotifyReservationRequested(ctx, info); err != nil {
			uc.logger.Error("CreateReservation: admin notification for %s failed: %v", res.ReservationNumber, err)
		}
	}()
}

func buildResponse(res *domain.Reservation, guest *domain.Guest, unit *domain.Unit) *Response {
	return &Response{
		ID:                res.ID,
		ReservationNumber: res.ReservationNumber,
		UnitID:            res.UnitID,
		UnitName:          unit.Name.Get(res.Language),
		GuestName:         guest.FullName,
		GuestEmail:        guest.Email,
		CheckIn:           res.CheckIn.Format(domain.DateFormat),
		CheckOut:          res.CheckOut.Format(domain.DateFormat),
		Nights:            res.Nights(),
		PricePerNight:     res.PricePerNight,
		TotalPrice:        res.TotalPrice,
		Status:            string(res.Status),
		Options: OptionsRequest{
			ExtraBed:     res.Options.ExtraBed,
			Parking:      res.Options.Parking,
			EarlyCheckIn: res.Options.EarlyCheckIn,
			LateCheckOut: res.Options.LateCheckOut,
		},
		Note:        res.Note,
		Language:    string(res.Language),
		RequestedAt: res.RequestedAt,
		CreatedAt:   res.CreatedAt,
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// truncateUserAgent обрезает user agent до предельной длины колонки
func truncateUserAgent(ua *string) *string {
	if ua == nil {
		return nil
	}
	if len(*ua) <= domain.MaxUserAgentLength {
		return ua
	}
	truncated := (*ua)[:domain.MaxUserAgentLength]
	return &truncated
}
