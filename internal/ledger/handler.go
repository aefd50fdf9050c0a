package ledger

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Handler wires HTTP endpoints for the transaction recorder.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	idem     shared.IdempotencyKeeper
	validate *validator.Validate
}

// NewHandler constructs the ledger handler. idem guards the create endpoint
// against client retries; nil disables the check.
func NewHandler(logger *slog.Logger, service *Service, idem shared.IdempotencyKeeper) *Handler {
	return &Handler{logger: logger, service: service, idem: idem, validate: validator.New()}
}

// MountRoutes registers transaction routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

type itemForm struct {
	Description string       `json:"description" validate:"required"`
	Value       shared.Cents `json:"value"`
	Quantity    float64      `json:"quantity"`
}

type transactionForm struct {
	Description     string       `json:"description" validate:"required"`
	Value           shared.Cents `json:"value" validate:"required"`
	Type            string       `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	PaymentMethod   string       `json:"payment_method" validate:"omitempty,oneof=ACCOUNT CREDIT_CARD"`
	AccountID       int64        `json:"account_id"`
	CardID          int64        `json:"card_id"`
	Date            string       `json:"date"`
	Installments    int          `json:"installments"`
	CategoryID      int64        `json:"category_id"`
	RecurringBillID int64        `json:"recurring_bill_id"`
	Items           []itemForm   `json:"items"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var form transactionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := parseDate(form.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}

	input := CreateInput{
		Description:     form.Description,
		Value:           form.Value,
		Type:            TransactionType(form.Type),
		Method:          PaymentMethod(form.PaymentMethod),
		AccountID:       form.AccountID,
		CardID:          form.CardID,
		Date:            date,
		Installments:    form.Installments,
		CategoryID:      form.CategoryID,
		RecurringBillID: form.RecurringBillID,
	}
	// Older clients send the card id in the account field.
	if input.Method == MethodCreditCard && input.CardID == 0 && input.AccountID != 0 {
		input.CardID = input.AccountID
		input.AccountID = 0
	}
	for _, item := range form.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		input.Items = append(input.Items, ItemInput{Description: item.Description, Value: item.Value, Quantity: quantity})
	}

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" && h.idem != nil {
		if err := h.idem.CheckAndInsert(r.Context(), idemKey, "transactions"); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}

	created, err := h.service.Create(r.Context(), actor.HouseID, input)
	if err != nil {
		// Release the key so the client can retry after fixing the request.
		if idemKey != "" && h.idem != nil {
			_ = h.idem.Delete(r.Context(), idemKey)
		}
		h.logger.Warn("create transaction", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	transactions, err := h.service.List(r.Context(), ListFilter{HouseID: actor.HouseID, UserID: actor.UserID, Limit: limit})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, transactions)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, ErrTransactionNotFound)
		return
	}
	transaction, err := h.service.Get(r.Context(), actor.HouseID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, transaction)
}

type transactionUpdateForm struct {
	Description string       `json:"description"`
	Value       shared.Cents `json:"value" validate:"required"`
	Date        string       `json:"date"`
	CategoryID  int64        `json:"category_id"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, ErrTransactionNotFound)
		return
	}
	var form transactionUpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := parseDate(form.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}
	updated, err := h.service.Update(r.Context(), actor.HouseID, id, UpdateInput{
		Description: form.Description,
		Value:       form.Value,
		Date:        date,
		CategoryID:  form.CategoryID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, ErrTransactionNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), actor.HouseID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
