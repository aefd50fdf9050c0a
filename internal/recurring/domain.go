package recurring

import (
	"fmt"
	"time"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Bill is a recurring obligation (rent, utilities). Transactions may link
// back to it, and active bills feed the monthly fixed-cost estimate.
type Bill struct {
	ID        int64        `json:"id"`
	HouseID   int64        `json:"house_id"`
	Name      string       `json:"name"`
	BaseValue shared.Cents `json:"base_value"`
	DueDay    int          `json:"due_day"`
	IsActive  bool         `json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
}

// Input carries bill creation and update fields.
type Input struct {
	Name      string
	BaseValue shared.Cents
	DueDay    int
	IsActive  bool
}

var (
	ErrNotFound     = fmt.Errorf("%w: recurring bill", httpx.ErrNotFound)
	ErrDuplicate    = fmt.Errorf("%w: a bill with this name already exists", httpx.ErrDuplicate)
	ErrInvalidInput = fmt.Errorf("%w: bill requires a name, non-negative value and due day between 1 and 31", httpx.ErrValidation)
)
