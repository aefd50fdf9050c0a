package history

import (
	"time"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Report is the monthly analysis: twelve months of aggregates, newest first,
// plus the estimated fixed cost from active recurring bills.
type Report struct {
	EstimatedFixed shared.Cents   `json:"estimated_fixed"`
	Months         []MonthSummary `json:"months"`
}

// MonthSummary aggregates one calendar month.
type MonthSummary struct {
	Month        time.Time            `json:"month"`
	Income       shared.Cents         `json:"income"`
	Expense      shared.Cents         `json:"expense"`
	Balance      shared.Cents         `json:"balance"`
	Categories   []CategoryTotal      `json:"categories"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// CategoryTotal is one month's expense share of a category.
type CategoryTotal struct {
	CategoryID int64        `json:"category_id"`
	Name       string       `json:"name"`
	Total      shared.Cents `json:"total"`
}
