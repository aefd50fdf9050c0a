package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Service handles signup and the token lifecycle.
type Service struct {
	repo   RepositoryPort
	tokens *TokenStore
	houses Houses
	logger *slog.Logger
}

func NewService(repo RepositoryPort, tokens *TokenStore, houses Houses, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, houses: houses, logger: logger}
}

// Register creates the user and their house membership. Invited signups join
// the inviting house; everyone else gets a fresh default house.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	var inviteID uuid.UUID
	if input.InviteToken != "" {
		parsed, err := uuid.Parse(input.InviteToken)
		if err != nil {
			return nil, ErrInvalidInvite
		}
		inviteID = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
	}
	if inviteID != uuid.Nil {
		if err := s.houses.ValidateInvitation(ctx, u.Email, inviteID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.InsertUser(ctx, u); err != nil {
		return nil, err
	}

	if inviteID != uuid.Nil {
		err = s.houses.AcceptInvitation(ctx, u.ID, u.Email, inviteID)
	} else {
		err = s.houses.SetupDefault(ctx, u.ID, u.Username)
	}
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "invited", inviteID != uuid.Nil)
	}
	return u, nil
}

// Login checks the credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(ctx, u.ID)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Resolve turns a bearer token into the acting member.
func (s *Service) Resolve(ctx context.Context, token string) (*shared.Actor, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.repo.ResolveActor(ctx, userID)
}
