package list_reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apartmani-bj/booking-service/internal/api/handlers"
	"github.com/apartmani-bj/booking-service/internal/service/reservations"
	"github.com/apartmani-bj/booking-service/internal/service/reservations/models"
	"github.com/apartmani-bj/booking-service/pkg/types"
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

// Handle GET /api/v1/reservations
// Параметры: startDate, endDate, unitId, guestId, status, guestEmail, page, limit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := parseQuery(r)
	if err != nil {
		h.logger.Warn("GET /reservations - Invalid query: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, reservations.ErrInvalidInput) {
			h.logger.Warn("GET /reservations - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /reservations - Failed to list reservations: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reservations - Page %d/%d, %d items",
		result.Pagination.Page, result.Pagination.TotalPages, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseQuery(r *http.Request) (*models.ListReservationsRequest, error) {
	query := r.URL.Query()
	req := &models.ListReservationsRequest{}

	if v := query.Get("startDate"); v != "" {
		if err := types.DateString(v).Validate(); err != nil {
			return nil, err
		}
		req.StartDate = &v
	}
	if v := query.Get("endDate"); v != "" {
		if err := types.DateString(v).Validate(); err != nil {
			return nil, err
		}
		req.EndDate = &v
	}
	if v := query.Get("unitId"); v != "" {
		req.UnitID = &v
	}
	if v := query.Get("guestId"); v != "" {
		req.GuestID = &v
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	if v := query.Get("guestEmail"); v != "" {
		req.GuestEmail = &v
	}

	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("page must be an integer")
		}
		req.Page = page
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("limit must be an integer")
		}
		req.Limit = limit
	}

	return req, nil
}
