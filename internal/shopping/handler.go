package shopping

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	idem     shared.IdempotencyKeeper
	validate *validator.Validate
}

// NewHandler constructs the shopping handler. idem guards checkout against
// client retries; nil disables the check.
func NewHandler(logger *slog.Logger, service *Service, idem shared.IdempotencyKeeper) *Handler {
	return &Handler{logger: logger, service: service, idem: idem, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/shopping-list", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Put("/{id}", h.handleUpdateEntry)
		r.Delete("/{id}", h.handleDeleteEntry)
		r.Post("/finish", h.handleFinish)
	})
}

type entryForm struct {
	QuantityToBuy     float64      `json:"quantity_to_buy" validate:"gte=0"`
	RealUnitPrice     shared.Cents `json:"real_unit_price" validate:"gte=0"`
	DiscountUnitPrice shared.Cents `json:"discount_unit_price" validate:"gte=0"`
	IsPurchased       bool         `json:"is_purchased"`
}

type finishForm struct {
	PaymentMethod string       `json:"payment_method" validate:"required,oneof=ACCOUNT CREDIT_CARD"`
	SourceID      int64        `json:"source_id" validate:"required"`
	Total         shared.Cents `json:"total" validate:"gt=0"`
	Date          string       `json:"date"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	entries, err := h.service.List(r.Context(), actor.HouseID)
	if err != nil {
		h.logger.Warn("derive shopping list", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, ErrEntryNotFound)
		return
	}
	var form entryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	e, err := h.service.UpdateEntry(r.Context(), actor.HouseID, id, EntryInput{
		QuantityToBuy:     form.QuantityToBuy,
		RealUnitPrice:     form.RealUnitPrice,
		DiscountUnitPrice: form.DiscountUnitPrice,
		IsPurchased:       form.IsPurchased,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, ErrEntryNotFound)
		return
	}
	if err := h.service.DeleteEntry(r.Context(), actor.HouseID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) handleFinish(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var form finishForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := FinishInput{
		Method:   ledger.PaymentMethod(form.PaymentMethod),
		SourceID: form.SourceID,
		Total:    form.Total,
	}
	if form.Date != "" {
		date, err := time.Parse("2006-01-02", form.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		input.Date = date
	}
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" && h.idem != nil {
		if err := h.idem.CheckAndInsert(r.Context(), idemKey, "checkout"); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	summary, err := h.service.Finish(r.Context(), actor.HouseID, input)
	if err != nil {
		// Release the key so the client can retry after fixing the cart.
		if idemKey != "" && h.idem != nil {
			_ = h.idem.Delete(r.Context(), idemKey)
		}
		h.logger.Warn("finish shopping", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, summary)
}
