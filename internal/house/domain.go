package house

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
)

// House is the unit of sharing: members, accounts, cards and every other
// record hang off one house.
type House struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is one user's membership in a house. A user belongs to exactly one
// house at a time.
type Member struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	HouseID   int64     `json:"house_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Invitation is a pending offer to join a house, keyed by a UUID that doubles
// as the accept token.
type Invitation struct {
	ID        uuid.UUID `json:"id"`
	HouseID   int64     `json:"house_id"`
	InviterID int64     `json:"inviter_id,omitempty"`
	Email     string    `json:"email"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrHouseNotFound  = fmt.Errorf("%w: house", httpx.ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("%w: member", httpx.ErrNotFound)
	ErrInviteNotFound = fmt.Errorf("%w: invitation", httpx.ErrNotFound)
	ErrInvalidName    = fmt.Errorf("%w: house name required", httpx.ErrValidation)

	// ErrNotMaster guards master-only operations.
	ErrNotMaster = fmt.Errorf("%w: only the house master may do this", httpx.ErrForbidden)
	// ErrMasterCannotLeave: the master deletes the house instead of leaving it.
	ErrMasterCannotLeave = fmt.Errorf("%w: the master cannot leave the house", httpx.ErrBusinessRule)
	ErrCannotRemoveSelf  = fmt.Errorf("%w: use leave to remove yourself", httpx.ErrBusinessRule)

	ErrAlreadyMember  = fmt.Errorf("%w: user is already a member of this house", httpx.ErrDuplicate)
	ErrPendingInvite  = fmt.Errorf("%w: an invitation for this e-mail is already pending", httpx.ErrDuplicate)
	ErrInviteMismatch = fmt.Errorf("%w: invitation was issued to a different e-mail", httpx.ErrForbidden)
)
