package create_reservation

import (
	"errors"
	"net/http"

	"github.com/apartmani-bj/booking-service/internal/api/handlers"
	"github.com/apartmani-bj/booking-service/internal/api/middleware"
	createReservation "github.com/apartmani-bj/booking-service/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUnitNotFound       = "unit not found"
	msgDatesNotAvailable  = "requested dates are not available"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req createReservation.Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Метаданные безопасности приходят из транспортного контекста, не из тела
	if ip, ok := middleware.GetClientIP(r.Context()); ok {
		req.IPAddress = &ip
	}
	if ua, ok := middleware.GetUserAgent(r.Context()); ok {
		req.UserAgent = &ua
	}
	if fp, ok := middleware.GetFingerprint(r.Context()); ok {
		req.Fingerprint = &fp
	}

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		var rateLimited *createReservation.RateLimitedError

		switch {
		case errors.As(err, &rateLimited):
			h.logger.Warn("POST /reservations - Rate limited: %s", rateLimited.Reason)
			handlers.RespondTooManyRequests(w, rateLimited.Reason, rateLimited.BlockedUntil)

		case errors.Is(err, createReservation.ErrInvalidInput),
			errors.Is(err, createReservation.ErrConsentRequired):
			h.logger.Warn("POST /reservations - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createReservation.ErrUnitNotFound):
			h.logger.Warn("POST /reservations - Unit not found: unit_id=%s", req.UnitID)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, createReservation.ErrDatesNotAvailable):
			h.logger.Warn("POST /reservations - Dates not available: unit_id=%s, %s..%s",
				req.UnitID, req.CheckIn, req.CheckOut)
			handlers.RespondConflict(w, msgDatesNotAvailable)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: %s (id=%s)",
		result.ReservationNumber, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
