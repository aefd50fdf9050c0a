package house

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Mailer enqueues the invitation e-mail. Satisfied by the jobs client; nil
// disables sending.
type Mailer interface {
	EnqueueInvitation(ctx context.Context, email, token, houseName string) error
}

// Service owns house lifecycle, membership and invitations.
type Service struct {
	repo   RepositoryPort
	mailer Mailer
	logger *slog.Logger
}

func NewService(repo RepositoryPort, mailer Mailer, logger *slog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, logger: logger}
}

// Create makes a new house and moves the creator in as its master.
func (s *Service) Create(ctx context.Context, userID int64, name string) (*House, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	h := &House{Name: name}
	if err := s.repo.InsertHouse(ctx, h); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertMembership(ctx, userID, h.ID, shared.RoleMaster); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "house created", "house_id", h.ID, "user_id", userID)
	}
	return h, nil
}

// SetupDefault creates the solo house every non-invited signup starts with.
func (s *Service) SetupDefault(ctx context.Context, userID int64, username string) (*House, error) {
	h := &House{Name: fmt.Sprintf("Casa de %s", username)}
	if err := s.repo.InsertHouse(ctx, h); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertMembership(ctx, userID, h.ID, shared.RoleAdmin); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) Get(ctx context.Context, houseID int64) (*House, error) {
	return s.repo.GetHouse(ctx, houseID)
}

func (s *Service) Rename(ctx context.Context, actor *shared.Actor, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if actor.Role != shared.RoleMaster && actor.Role != shared.RoleAdmin {
		return ErrNotMaster
	}
	return s.repo.RenameHouse(ctx, actor.HouseID, name)
}

// Delete removes the house with everything in it, and the master's user
// record. Master only.
func (s *Service) Delete(ctx context.Context, actor *shared.Actor) error {
	if actor.Role != shared.RoleMaster {
		return ErrNotMaster
	}
	if err := s.repo.DeleteHouse(ctx, actor.HouseID); err != nil {
		return err
	}
	return s.repo.DeleteUser(ctx, actor.UserID)
}

func (s *Service) Members(ctx context.Context, houseID int64) ([]Member, error) {
	return s.repo.ListMembers(ctx, houseID)
}

// Leave removes the acting member from the house. Their private accounts and
// cards disappear, but the transactions those funded survive with the funding
// reference cleared, so the house's history stays intact. One atomic unit.
func (s *Service) Leave(ctx context.Context, actor *shared.Actor) error {
	if actor.Role == shared.RoleMaster {
		return ErrMasterCannotLeave
	}
	return s.departure(ctx, actor.HouseID, actor.UserID)
}

// RemoveMember expels another member, with the same anonymizing cleanup as a
// voluntary leave. Master only; self-removal goes through Leave.
func (s *Service) RemoveMember(ctx context.Context, actor *shared.Actor, userID int64) error {
	if actor.Role != shared.RoleMaster {
		return ErrNotMaster
	}
	if userID == actor.UserID {
		return ErrCannotRemoveSelf
	}
	member, err := s.repo.GetMembership(ctx, userID)
	if err != nil {
		return err
	}
	if member.HouseID != actor.HouseID {
		return ErrMemberNotFound
	}
	return s.departure(ctx, actor.HouseID, userID)
}

func (s *Service) departure(ctx context.Context, houseID, userID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.AnonymizePrivateFunding(ctx, houseID, userID); err != nil {
			return err
		}
		if err := tx.DeletePrivateAccounts(ctx, houseID, userID); err != nil {
			return err
		}
		if err := tx.DeletePrivateCards(ctx, houseID, userID); err != nil {
			return err
		}
		return tx.DeleteMembership(ctx, userID)
	})
	if err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "member left house", "house_id", houseID, "user_id", userID)
	}
	return nil
}

// Invite offers house membership to an e-mail address and queues the
// invitation mail.
func (s *Service) Invite(ctx context.Context, actor *shared.Actor, email string) (*Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: e-mail required", ErrInviteNotFound)
	}
	isMember, err := s.repo.IsMemberEmail(ctx, actor.HouseID, email)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, ErrAlreadyMember
	}
	pending, err := s.repo.HasPendingInvitation(ctx, actor.HouseID, email)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrPendingInvite
	}

	inv := &Invitation{ID: uuid.New(), HouseID: actor.HouseID, InviterID: actor.UserID, Email: email}
	if err := s.repo.InsertInvitation(ctx, inv); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		h, err := s.repo.GetHouse(ctx, actor.HouseID)
		if err != nil {
			return nil, err
		}
		if err := s.mailer.EnqueueInvitation(ctx, email, inv.ID.String(), h.Name); err != nil {
			// The invite row exists; mail delivery can be retried manually.
			if s.logger != nil {
				s.logger.WarnContext(ctx, "enqueue invitation mail", "error", err)
			}
		}
	}
	return inv, nil
}

func (s *Service) PendingInvitations(ctx context.Context, houseID int64) ([]Invitation, error) {
	return s.repo.ListPendingInvitations(ctx, houseID)
}

func (s *Service) CancelInvitation(ctx context.Context, houseID int64, id uuid.UUID) error {
	inv, err := s.repo.GetInvitation(ctx, id)
	if err != nil {
		return err
	}
	if inv.HouseID != houseID || inv.Accepted {
		return ErrInviteNotFound
	}
	return s.repo.DeleteInvitation(ctx, id)
}

// ValidateInvitation checks that the invite exists, is still pending and is
// addressed to the given e-mail. Signup calls it before creating the user so
// a bad token never leaves a user row behind.
func (s *Service) ValidateInvitation(ctx context.Context, email string, inviteID uuid.UUID) error {
	inv, err := s.repo.GetInvitation(ctx, inviteID)
	if err != nil {
		return err
	}
	if inv.Accepted {
		return ErrInviteNotFound
	}
	if !strings.EqualFold(inv.Email, email) {
		return ErrInviteMismatch
	}
	return nil
}

// AcceptInvitation joins the user to the inviting house. The invite must
// match the user's e-mail. A solo default house left behind is cleaned up.
func (s *Service) AcceptInvitation(ctx context.Context, userID int64, email string, inviteID uuid.UUID) error {
	inv, err := s.repo.GetInvitation(ctx, inviteID)
	if err != nil {
		return err
	}
	if inv.Accepted {
		return ErrInviteNotFound
	}
	if !strings.EqualFold(inv.Email, email) {
		return ErrInviteMismatch
	}

	var orphanedHouse int64
	if current, err := s.repo.GetMembership(ctx, userID); err == nil {
		if current.HouseID == inv.HouseID {
			return ErrAlreadyMember
		}
		count, err := s.repo.CountMembers(ctx, current.HouseID)
		if err != nil {
			return err
		}
		if count == 1 {
			orphanedHouse = current.HouseID
		}
	}

	if err := s.repo.UpsertMembership(ctx, userID, inv.HouseID, shared.RoleMember); err != nil {
		return err
	}
	if err := s.repo.DeleteInvitation(ctx, inv.ID); err != nil {
		return err
	}
	if orphanedHouse != 0 {
		if err := s.repo.DeleteHouse(ctx, orphanedHouse); err != nil {
			return err
		}
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "invitation accepted", "house_id", inv.HouseID, "user_id", userID)
	}
	return nil
}
