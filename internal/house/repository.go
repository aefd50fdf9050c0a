package house

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryPort abstracts house, membership and invitation persistence.
type RepositoryPort interface {
	InsertHouse(ctx context.Context, h *House) error
	GetHouse(ctx context.Context, id int64) (*House, error)
	DeleteHouse(ctx context.Context, id int64) error
	RenameHouse(ctx context.Context, id int64, name string) error

	// UpsertMembership moves the user into the house, replacing any previous
	// membership. A user belongs to one house at a time.
	UpsertMembership(ctx context.Context, userID, houseID int64, role string) error
	GetMembership(ctx context.Context, userID int64) (*Member, error)
	ListMembers(ctx context.Context, houseID int64) ([]Member, error)
	CountMembers(ctx context.Context, houseID int64) (int, error)
	DeleteUser(ctx context.Context, userID int64) error

	InsertInvitation(ctx context.Context, inv *Invitation) error
	GetInvitation(ctx context.Context, id uuid.UUID) (*Invitation, error)
	ListPendingInvitations(ctx context.Context, houseID int64) ([]Invitation, error)
	DeleteInvitation(ctx context.Context, id uuid.UUID) error
	HasPendingInvitation(ctx context.Context, houseID int64, email string) (bool, error)
	IsMemberEmail(ctx context.Context, houseID int64, email string) (bool, error)

	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository carries the atomic leave/removal steps: anonymize the member's
// funded history, drop their private funding sources, drop the membership.
type TxRepository interface {
	// AnonymizePrivateFunding nulls the funding reference of every transaction
	// funded by the user's private accounts or private cards' invoices.
	AnonymizePrivateFunding(ctx context.Context, houseID, userID int64) error
	DeletePrivateAccounts(ctx context.Context, houseID, userID int64) error
	DeletePrivateCards(ctx context.Context, houseID, userID int64) error
	DeleteMembership(ctx context.Context, userID int64) error
}
