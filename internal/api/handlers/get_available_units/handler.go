package get_available_units

import (
	"errors"
	"net/http"

	"github.com/apartmani-bj/booking-service/internal/api/handlers"
	getAvailableUnits "github.com/apartmani-bj/booking-service/internal/usecase/get_available_units"
)

type Handler struct {
	useCase GetAvailableUnitsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableUnitsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/units/available?checkIn=...&checkOut=...&language=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &getAvailableUnits.Request{
		CheckIn:  query.Get("checkIn"),
		CheckOut: query.Get("checkOut"),
		Language: query.Get("language"),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, getAvailableUnits.ErrInvalidInput) {
			h.logger.Warn("GET /units/available - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /units/available - Failed to list units: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /units/available - %d units for %s..%s",
		len(result.Units), result.CheckIn, result.CheckOut)
	handlers.RespondJSON(w, http.StatusOK, result)
}
