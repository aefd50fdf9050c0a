package cards

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

// NewHandler constructs the cards handler. idem guards invoice payments
// against client retries; nil disables the check.
func NewHandler(logger *slog.Logger, service *Service, idem shared.IdempotencyKeeper) *Handler {
	return &Handler{logger: logger, service: service, idem: idem, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/credit-cards", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Get("/{id}/invoices", h.handleListInvoices)
		r.Get("/{id}/invoices/{invoiceID}", h.handleGetInvoice)
		r.Post("/{id}/invoices/{invoiceID}/payments", h.handlePayInvoice)
	})
}

type cardForm struct {
	Name       string       `json:"name" validate:"required,max=120"`
	LimitTotal shared.Cents `json:"limit_total" validate:"gt=0"`
	ClosingDay int          `json:"closing_day" validate:"min=1,max=31"`
	IsShared   bool         `json:"is_shared"`
}

type paymentForm struct {
	AccountID int64        `json:"account_id" validate:"required"`
	Value     shared.Cents `json:"value" validate:"gt=0"`
	Date      string       `json:"date"`
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var form cardForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	c, err := h.service.Create(r.Context(), actor.HouseID, actor.UserID, Input{
		Name:       form.Name,
		LimitTotal: form.LimitTotal,
		ClosingDay: form.ClosingDay,
		IsShared:   form.IsShared,
	})
	if err != nil {
		h.logger.Warn("create credit card", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	out, err := h.service.List(r.Context(), actor.HouseID, actor.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		httpx.RespondError(w, ErrNotFound)
		return
	}
	c, err := h.service.Get(r.Context(), actor.HouseID, actor.UserID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		httpx.RespondError(w, ErrNotFound)
		return
	}
	var form cardForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	c, err := h.service.Update(r.Context(), actor.HouseID, actor.UserID, id, Input{
		Name:       form.Name,
		LimitTotal: form.LimitTotal,
		ClosingDay: form.ClosingDay,
		IsShared:   form.IsShared,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		httpx.RespondError(w, ErrNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), actor.HouseID, actor.UserID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		httpx.RespondError(w, ErrNotFound)
		return
	}
	out, err := h.service.ListInvoices(r.Context(), actor.HouseID, actor.UserID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

type invoiceDetail struct {
	*Invoice
	Transactions []ledger.Transaction `json:"transactions"`
}

func (h *Handler) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	cardID, ok := urlID(r, "id")
	if !ok {
		httpx.RespondError(w, ErrNotFound)
		return
	}
	invoiceID, ok := urlID(r, "invoiceID")
	if !ok {
		httpx.RespondError(w, ErrInvoiceNotFound)
		return
	}
	inv, transactions, err := h.service.GetInvoice(r.Context(), actor.HouseID, actor.UserID, cardID, invoiceID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoiceDetail{Invoice: inv, Transactions: transactions})
}

func (h *Handler) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	cardID, ok := urlID(r, "id")
	if !ok {
		httpx.RespondError(w, ErrNotFound)
		return
	}
	invoiceID, ok := urlID(r, "invoiceID")
	if !ok {
		httpx.RespondError(w, ErrInvoiceNotFound)
		return
	}
	var form paymentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	payment := PaymentInput{
		InvoiceID: invoiceID,
		AccountID: form.AccountID,
		Value:     form.Value,
	}
	if form.Date != "" {
		date, err := time.Parse("2006-01-02", form.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		payment.Date = date
	}
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" && h.idem != nil {
		if err := h.idem.CheckAndInsert(r.Context(), idemKey, "invoice-payments"); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	inv, err := h.service.PayInvoice(r.Context(), actor.HouseID, actor.UserID, cardID, payment)
	if err != nil {
		// Release the key so the client can retry after fixing the request.
		if idemKey != "" && h.idem != nil {
			_ = h.idem.Delete(r.Context(), idemKey)
		}
		h.logger.Warn("pay invoice", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}
