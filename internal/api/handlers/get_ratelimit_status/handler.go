package get_ratelimit_status

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/apartmani-bj/booking-service/internal/api/handlers"
	"github.com/apartmani-bj/booking-service/internal/domain"
	"github.com/apartmani-bj/booking-service/internal/service/ratelimit"
)

const msgInvalidKind = "unknown identifier kind"

// StatusResponse состояние счетчика rate limiter
type StatusResponse struct {
	Kind         string     `json:"kind"`
	Identifier   string     `json:"identifier"`
	Attempts     int64      `json:"attempts"`
	FirstAttempt *time.Time `json:"firstAttempt,omitempty"`
	LastAttempt  *time.Time `json:"lastAttempt,omitempty"`
	BlockedUntil *time.Time `json:"blockedUntil,omitempty"`
}

type Handler struct {
	service RateLimitService
	logger  Logger
}

func NewHandler(service RateLimitService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/ratelimit/{kind}/{identifier}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := vars["kind"]
	identifier := vars["identifier"]

	status, err := h.service.Status(r.Context(), kind, identifier)
	if err != nil {
		if errors.Is(err, ratelimit.ErrInvalidKind) {
			h.logger.Warn("GET /ratelimit - Invalid kind: %s", kind)
			handlers.RespondBadRequest(w, msgInvalidKind)
			return
		}
		h.logger.Error("GET /ratelimit - Failed to get status for %s:%s: %v", kind, identifier, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromDomainStatus(status))
}

func fromDomainStatus(s *domain.RateLimitStatus) *StatusResponse {
	return &StatusResponse{
		Kind:         string(s.Kind),
		Identifier:   s.Identifier,
		Attempts:     s.Attempts,
		FirstAttempt: s.FirstAttempt,
		LastAttempt:  s.LastAttempt,
		BlockedUntil: s.BlockedUntil,
	}
}
