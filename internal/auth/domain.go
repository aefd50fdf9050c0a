package auth

import (
	"fmt"
	"time"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
)

// User is an account that can log in. House membership lives in the house
// module; auth only knows identity.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterInput carries a signup request. InviteToken, when present, joins
// the new user to the inviting house instead of creating a default one.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	InviteToken string
}

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	ErrDuplicateUser      = fmt.Errorf("%w: username or e-mail already taken", httpx.ErrDuplicate)
	ErrUserNotFound       = fmt.Errorf("%w: user", httpx.ErrNotFound)
	ErrInvalidInvite      = fmt.Errorf("%w: invitation token", httpx.ErrNotFound)
)
