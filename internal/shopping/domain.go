package shopping

import (
	"fmt"
	"time"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Entry is one line of the shopping list. Entries are derived from inventory
// thresholds, not purely user-managed: an unpurchased entry appears while its
// product's stock sits at or below the restock threshold and disappears once
// the stock recovers. Purchased entries stick around until checkout.
type Entry struct {
	ID                int64        `json:"id"`
	HouseID           int64        `json:"house_id"`
	ProductID         int64        `json:"product_id"`
	ProductName       string       `json:"product_name,omitempty"`
	EstimatedPrice    shared.Cents `json:"estimated_price"`
	QuantityToBuy     float64      `json:"quantity_to_buy"`
	RealUnitPrice     shared.Cents `json:"real_unit_price"`
	DiscountUnitPrice shared.Cents `json:"discount_unit_price"`
	IsPurchased       bool         `json:"is_purchased"`
}

// UnitPrice resolves the price a purchased entry is booked at: the real
// price when known, the discount price as fallback, the product's estimate
// as last resort.
func (e Entry) UnitPrice() shared.Cents {
	if e.RealUnitPrice > 0 {
		return e.RealUnitPrice
	}
	if e.DiscountUnitPrice > 0 {
		return e.DiscountUnitPrice
	}
	return e.EstimatedPrice
}

// EntryInput carries user edits to a list entry.
type EntryInput struct {
	QuantityToBuy     float64
	RealUnitPrice     shared.Cents
	DiscountUnitPrice shared.Cents
	IsPurchased       bool
}

// FinishInput describes a checkout: who pays and how much.
type FinishInput struct {
	Method   ledger.PaymentMethod
	SourceID int64
	Total    shared.Cents
	Date     time.Time
}

// Summary reports what a checkout produced.
type Summary struct {
	TransactionID int64        `json:"transaction_id"`
	Total         shared.Cents `json:"total"`
	ItemCount     int          `json:"item_count"`
}

// StockLevel is the inventory projection the list derivation reads.
type StockLevel struct {
	ProductID      int64
	ProductName    string
	EstimatedPrice shared.Cents
	Quantity       float64
	MinQuantity    float64
}

var (
	ErrEntryNotFound = fmt.Errorf("%w: shopping list entry", httpx.ErrNotFound)
	ErrEmptyCart     = fmt.Errorf("%w: no purchased entries to check out", httpx.ErrBusinessRule)
	ErrInvalidEntry  = fmt.Errorf("%w: entry quantities and prices must not be negative", httpx.ErrValidation)
)
