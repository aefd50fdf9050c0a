package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

// RepositoryPort abstracts user persistence.
type RepositoryPort interface {
	InsertUser(ctx context.Context, u *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// ResolveActor loads the user together with their house membership, the
	// shape the request context wants.
	ResolveActor(ctx context.Context, userID int64) (*shared.Actor, error)
}

// Houses is the slice of the house module auth needs at signup time.
type Houses interface {
	SetupDefault(ctx context.Context, userID int64, username string) error
	// ValidateInvitation runs before the user row exists so a rejected
	// token aborts the signup cleanly.
	ValidateInvitation(ctx context.Context, email string, inviteID uuid.UUID) error
	AcceptInvitation(ctx context.Context, userID int64, email string, inviteID uuid.UUID) error
}
