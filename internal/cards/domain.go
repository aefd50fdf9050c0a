package cards

import (
	"fmt"
	"time"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// CreditCard tracks a revolving credit line. LimitAvailable is consumed by
// card purchases and restored by invoice payments, never above LimitTotal.
type CreditCard struct {
	ID             int64        `json:"id"`
	HouseID        int64        `json:"house_id"`
	OwnerID        int64        `json:"owner_id,omitempty"`
	IsShared       bool         `json:"is_shared"`
	Name           string       `json:"name"`
	LimitTotal     shared.Cents `json:"limit_total"`
	LimitAvailable shared.Cents `json:"limit_available"`
	ClosingDay     int          `json:"closing_day"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Invoice groups card purchases by reference month. Status moves from OPEN to
// PAID exactly once and never back, even if later purchases land on the month.
type Invoice struct {
	ID            int64        `json:"id"`
	CardID        int64        `json:"card_id"`
	ReferenceDate time.Time    `json:"reference_date"`
	Value         shared.Cents `json:"value"`
	AmountPaid    shared.Cents `json:"amount_paid"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Invoice statuses.
const (
	StatusOpen = "OPEN"
	StatusPaid = "PAID"
)

// Input carries card creation and update fields.
type Input struct {
	Name       string
	LimitTotal shared.Cents
	ClosingDay int
	IsShared   bool
}

// PaymentInput describes paying part or all of one invoice from an account.
// A zero Date records the payment as of now.
type PaymentInput struct {
	InvoiceID int64
	AccountID int64
	Value     shared.Cents
	Date      time.Time
}

var (
	ErrNotFound        = fmt.Errorf("%w: credit card", httpx.ErrNotFound)
	ErrInvoiceNotFound = fmt.Errorf("%w: invoice", httpx.ErrNotFound)
	ErrInvalidInput    = fmt.Errorf("%w: card requires a name, a positive limit and a closing day between 1 and 31", httpx.ErrValidation)
	ErrInvalidPayment  = fmt.Errorf("%w: payment value must be positive", httpx.ErrValidation)
	ErrInvoicePaid     = fmt.Errorf("%w: invoice is already paid", httpx.ErrBusinessRule)
)
