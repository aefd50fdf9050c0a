package ledger

import (
	"fmt"
	"time"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// TransactionType distinguishes money entering from money leaving the house.
type TransactionType string

const (
	// TypeIncome credits an account.
	TypeIncome TransactionType = "INCOME"
	// TypeExpense debits an account or consumes credit-card limit.
	TypeExpense TransactionType = "EXPENSE"
)

// PaymentMethod selects the funding source of an expense.
type PaymentMethod string

const (
	// MethodAccount funds the transaction from a checking account.
	MethodAccount PaymentMethod = "ACCOUNT"
	// MethodCreditCard funds the transaction from a credit card via its invoice.
	MethodCreditCard PaymentMethod = "CREDIT_CARD"
)

// Transaction is one ledger movement. Funding is exactly one of AccountID,
// InvoiceID, or neither (anonymized history after an owner departs).
type Transaction struct {
	ID              int64           `json:"id"`
	HouseID         int64           `json:"house_id"`
	Description     string          `json:"description"`
	Value           shared.Cents    `json:"value"`
	Type            TransactionType `json:"type"`
	Date            time.Time       `json:"date"`
	AccountID       int64           `json:"account_id,omitempty"`
	InvoiceID       int64           `json:"invoice_id,omitempty"`
	CategoryID      int64           `json:"category_id,omitempty"`
	RecurringBillID int64           `json:"recurring_bill_id,omitempty"`
	Items           []Item          `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Item is one line of a transaction (e.g. a grocery product).
type Item struct {
	ID            int64        `json:"id"`
	TransactionID int64        `json:"transaction_id"`
	Description   string       `json:"description"`
	Value         shared.Cents `json:"value"`
	Quantity      float64      `json:"quantity"`
}

// ItemInput describes a requested line item. Stored as given, never
// re-validated against the parent total.
type ItemInput struct {
	Description string
	Value       shared.Cents
	Quantity    float64
}

// CreateInput is the recorder contract. Method selects the funding source for
// expenses; an empty method with no account records a purely historical
// transaction with no balance mutation.
type CreateInput struct {
	Description string
	Value       shared.Cents
	Type        TransactionType
	Method      PaymentMethod
	AccountID   int64
	CardID      int64
	Date        time.Time
	// ReferenceDate, when set, picks the invoice month of a card expense
	// instead of Date. Checkout uses it so a backdated purchase still
	// lands on the current invoice while keeping its own date.
	ReferenceDate   time.Time
	Installments    int
	CategoryID      int64
	RecurringBillID int64
	Items           []ItemInput
}

// UpdateInput carries a type-preserving edit.
type UpdateInput struct {
	Description string
	Value       shared.Cents
	Date        time.Time
	CategoryID  int64
}

// ListFilter scopes transaction listings to a house and the acting member's
// visibility (shared sources, own sources, or anonymized history).
type ListFilter struct {
	HouseID int64
	UserID  int64
	Limit   int
}

// AccountRef is the ledger's view of an account row during a mutation.
type AccountRef struct {
	ID      int64
	HouseID int64
	Name    string
	Balance shared.Cents
	Limit   shared.Cents
}

// PurchasingPower is the maximum expense the account can fund.
func (a AccountRef) PurchasingPower() shared.Cents {
	return a.Balance + a.Limit
}

// CardRef is the ledger's view of a credit card row during a mutation.
type CardRef struct {
	ID             int64
	HouseID        int64
	Name           string
	LimitTotal     shared.Cents
	LimitAvailable shared.Cents
	ClosingDay     int
}

// Invoice statuses.
const (
	InvoiceStatusOpen = "OPEN"
	InvoiceStatusPaid = "PAID"
)

// InvoiceRef is the ledger's view of a monthly invoice row.
type InvoiceRef struct {
	ID            int64
	CardID        int64
	ReferenceDate time.Time
	Value         shared.Cents
	AmountPaid    shared.Cents
	Status        string
}

// Domain failures. Not-found errors never reveal whether the row exists in
// another house.
var (
	ErrAccountNotFound     = fmt.Errorf("%w: account", httpx.ErrNotFound)
	ErrCardNotFound        = fmt.Errorf("%w: credit card", httpx.ErrNotFound)
	ErrInvoiceNotFound     = fmt.Errorf("%w: invoice", httpx.ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", httpx.ErrNotFound)

	ErrInsufficientFunds  = fmt.Errorf("%w: insufficient funds", httpx.ErrBusinessRule)
	ErrInsufficientCredit = fmt.Errorf("%w: insufficient credit limit", httpx.ErrBusinessRule)

	ErrInvalidValue         = fmt.Errorf("%w: value must be positive", httpx.ErrValidation)
	ErrInvalidType          = fmt.Errorf("%w: type must be INCOME or EXPENSE", httpx.ErrValidation)
	ErrMissingAccount       = fmt.Errorf("%w: an account must be selected", httpx.ErrValidation)
	ErrMissingCard          = fmt.Errorf("%w: a credit card must be selected", httpx.ErrValidation)
	ErrInvalidInstallments  = fmt.Errorf("%w: installments require a credit card expense", httpx.ErrValidation)
	ErrInstallmentImmutable = fmt.Errorf("%w: installment values cannot be edited, delete and recreate", httpx.ErrValidation)
)
