package catalog

import (
	"fmt"
	"time"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Category types.
const (
	CategoryExpense = "EXPENSE"
	CategoryIncome  = "INCOME"
)

// GroceryCategory is the category the shopping checkout books market
// purchases under. It is created on demand.
const GroceryCategory = "Compras"

// Category classifies transactions for reporting.
type Category struct {
	ID      int64  `json:"id"`
	HouseID int64  `json:"house_id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// Product is a purchasable item the house tracks. EstimatedPrice feeds the
// shopping list forecast and is refined after each checkout. MinQuantity is
// the default restock threshold for new inventory entries.
type Product struct {
	ID             int64        `json:"id"`
	HouseID        int64        `json:"house_id"`
	Name           string       `json:"name"`
	EstimatedPrice shared.Cents `json:"estimated_price"`
	MinQuantity    float64      `json:"min_quantity"`
	CreatedAt      time.Time    `json:"created_at"`
}

// CategoryInput carries category creation and update fields.
type CategoryInput struct {
	Name string
	Type string
}

// ProductInput carries product creation and update fields.
type ProductInput struct {
	Name           string
	EstimatedPrice shared.Cents
	MinQuantity    float64
}

var (
	ErrCategoryNotFound  = fmt.Errorf("%w: category", httpx.ErrNotFound)
	ErrProductNotFound   = fmt.Errorf("%w: product", httpx.ErrNotFound)
	ErrDuplicateCategory = fmt.Errorf("%w: category name already in use", httpx.ErrDuplicate)
	ErrInvalidCategory   = fmt.Errorf("%w: category requires a name and a valid type", httpx.ErrValidation)
	ErrInvalidProduct    = fmt.Errorf("%w: product requires a name and non-negative price and quantity", httpx.ErrValidation)
)
