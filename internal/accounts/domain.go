package accounts

import (
	"fmt"
	"time"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Account is a checking account scoped to a house, optionally private to one
// member. Balance may go negative down to the overdraft limit; the ledger is
// the only writer of Balance after creation.
type Account struct {
	ID        int64        `json:"id"`
	HouseID   int64        `json:"house_id"`
	OwnerID   int64        `json:"owner_id,omitempty"`
	IsShared  bool         `json:"is_shared"`
	Name      string       `json:"name"`
	Balance   shared.Cents `json:"balance"`
	Limit     shared.Cents `json:"limit"`
	CreatedAt time.Time    `json:"created_at"`
}

// Input carries account creation and update fields.
type Input struct {
	Name     string
	Balance  shared.Cents
	Limit    shared.Cents
	IsShared bool
}

var (
	// ErrNotFound hides whether the account exists in another house.
	ErrNotFound = fmt.Errorf("%w: account", httpx.ErrNotFound)
	// ErrInvalidInput indicates a malformed account payload.
	ErrInvalidInput = fmt.Errorf("%w: account name required and limit must not be negative", httpx.ErrValidation)
)
