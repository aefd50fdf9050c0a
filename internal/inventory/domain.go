package inventory

import (
	"fmt"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
)

// Item tracks how much of a product the house currently holds. Quantity at
// or below MinQuantity puts the product on the shopping list.
type Item struct {
	ID          int64   `json:"id"`
	HouseID     int64   `json:"house_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    float64 `json:"quantity"`
	MinQuantity float64 `json:"min_quantity"`
}

// Input carries inventory creation and update fields. MinQuantity zero on
// creation falls back to the product's default threshold.
type Input struct {
	ProductID   int64
	Quantity    float64
	MinQuantity float64
}

var (
	ErrNotFound     = fmt.Errorf("%w: inventory item", httpx.ErrNotFound)
	ErrInvalidInput = fmt.Errorf("%w: inventory requires a product and non-negative quantities", httpx.ErrValidation)
)
