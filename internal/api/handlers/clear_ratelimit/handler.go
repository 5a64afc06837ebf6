package clear_ratelimit

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/apartmani-bj/booking-service/internal/api/handlers"
	"github.com/apartmani-bj/booking-service/internal/service/ratelimit"
)

const msgInvalidKind = "unknown identifier kind"

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

// Handle DELETE /api/v1/ratelimit/{kind}/{identifier}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := vars["kind"]
	identifier := vars["identifier"]

	if err := h.service.Clear(r.Context(), kind, identifier); err != nil {
		if errors.Is(err, ratelimit.ErrInvalidKind) {
			h.logger.Warn("DELETE /ratelimit - Invalid kind: %s", kind)
			handlers.RespondBadRequest(w, msgInvalidKind)
			return
		}
		h.logger.Error("DELETE /ratelimit - Failed to clear %s:%s: %v", kind, identifier, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /ratelimit - Cleared %s:%s", kind, identifier)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
