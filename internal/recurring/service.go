package recurring

import (
	"context"
	"log/slog"
	"strings"
)

// Service owns the house's recurring bills.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.Name) == "" || input.BaseValue < 0 || input.DueDay < 1 || input.DueDay > 31 {
		return ErrInvalidInput
	}
	return nil
}

func (s *Service) Create(ctx context.Context, houseID int64, input Input) (*Bill, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	b := &Bill{
		HouseID:   houseID,
		Name:      strings.TrimSpace(input.Name),
		BaseValue: input.BaseValue,
		DueDay:    input.DueDay,
		IsActive:  input.IsActive,
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "recurring bill created", "bill_id", b.ID, "house_id", houseID)
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, houseID, id int64) (*Bill, error) {
	return s.repo.Get(ctx, houseID, id)
}

func (s *Service) List(ctx context.Context, houseID int64) ([]Bill, error) {
	return s.repo.List(ctx, houseID)
}

func (s *Service) Update(ctx context.Context, houseID, id int64, input Input) (*Bill, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	b, err := s.repo.Get(ctx, houseID, id)
	if err != nil {
		return nil, err
	}
	b.Name = strings.TrimSpace(input.Name)
	b.BaseValue = input.BaseValue
	b.DueDay = input.DueDay
	b.IsActive = input.IsActive
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, houseID, id int64) error {
	return s.repo.Delete(ctx, houseID, id)
}
