package update_reservation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apartmani-bj/booking-service/internal/api/handlers"
	"github.com/apartmani-bj/booking-service/internal/service/reservations"
	"github.com/apartmani-bj/booking-service/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "invalid reservation id"
	msgInvalidRequestBody   = "invalid request body"
	msgNotFound             = "reservation not found"
	msgUnitNotFound         = "unit not found"
	msgDatesConflict        = "new dates conflict with an existing reservation"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := uuid.Parse(vars["reservationId"])
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req models.UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrUnitNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Unit not found: id=%s", id)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id} - Validation failed: id=%s, error=%v", id, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, reservations.ErrInvalidTransition):
			h.logger.Warn("PATCH /reservations/{id} - Invalid transition: id=%s, error=%v", id, err)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, reservations.ErrDatesConflict):
			h.logger.Warn("PATCH /reservations/{id} - Dates conflict: id=%s", id)
			handlers.RespondConflict(w, msgDatesConflict)

		default:
			h.logger.Error("PATCH /reservations/{id} - Failed to update: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id} - Updated: %s", result.ReservationNumber)
	handlers.RespondJSON(w, http.StatusOK, result)
}
