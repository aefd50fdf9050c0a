package accounts

import (
	"context"
	"log/slog"
	"strings"
)

// Service owns account lifecycle and visibility rules. Private accounts are
// only visible to their owner; shared accounts to every house member.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, houseID, ownerID int64, input Input) (*Account, error) {
	if strings.TrimSpace(input.Name) == "" || input.Limit < 0 {
		return nil, ErrInvalidInput
	}
	a := &Account{
		HouseID:  houseID,
		OwnerID:  ownerID,
		IsShared: input.IsShared,
		Name:     strings.TrimSpace(input.Name),
		Balance:  input.Balance,
		Limit:    input.Limit,
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "account created", "account_id", a.ID, "house_id", houseID)
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, houseID, userID, id int64) (*Account, error) {
	a, err := s.repo.Get(ctx, houseID, id)
	if err != nil {
		return nil, err
	}
	if !a.IsShared && a.OwnerID != userID {
		return nil, ErrNotFound
	}
	return a, nil
}

// List returns the accounts visible to userID within the house.
func (s *Service) List(ctx context.Context, houseID, userID int64) ([]Account, error) {
	all, err := s.repo.List(ctx, houseID)
	if err != nil {
		return nil, err
	}
	visible := make([]Account, 0, len(all))
	for _, a := range all {
		if a.IsShared || a.OwnerID == userID {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// Update changes name, overdraft limit and sharing. Balance is intentionally
// not updatable here; only recorded transactions move it.
func (s *Service) Update(ctx context.Context, houseID, userID, id int64, input Input) (*Account, error) {
	if strings.TrimSpace(input.Name) == "" || input.Limit < 0 {
		return nil, ErrInvalidInput
	}
	a, err := s.Get(ctx, houseID, userID, id)
	if err != nil {
		return nil, err
	}
	a.Name = strings.TrimSpace(input.Name)
	a.Limit = input.Limit
	a.IsShared = input.IsShared
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the account. Historic transactions keep existing with their
// account reference nulled by the schema.
func (s *Service) Delete(ctx context.Context, houseID, userID, id int64) error {
	if _, err := s.Get(ctx, houseID, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, houseID, id)
}
