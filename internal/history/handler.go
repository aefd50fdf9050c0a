package history

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/history", h.handleMonthly)
}

func (h *Handler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	report, err := h.service.Monthly(r.Context(), actor.HouseID, actor.UserID)
	if err != nil {
		h.logger.Warn("monthly history", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
