package investor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio-manager/internal/domain"
)

// Service handles investor master-data operations
type Service struct {
	investors domain.InvestorRepository
}

// NewService creates a new investor Service instance
func NewService(investorRepo domain.InvestorRepository) *Service {
	return &Service{investors: investorRepo}
}

// List retrieves all investors
func (s *Service) List(ctx context.Context) ([]*domain.Investor, error) {
	return s.investors.List(ctx)
}

// GetByID retrieves a single investor
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investor, error) {
	return s.investors.GetByID(ctx, id)
}

// Create registers a new investor. The code is mandatory.
func (s *Service) Create(ctx context.Context, code string) (*domain.Investor, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("investor code must not be empty: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	investor := &domain.Investor{
		ID:        uuid.New(),
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.investors.Create(ctx, investor); err != nil {
		return nil, fmt.Errorf("creating investor: %w", err)
	}
	return investor, nil
}

// Update changes an investor's code
func (s *Service) Update(ctx context.Context, id uuid.UUID, code string) (*domain.Investor, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("investor code must not be empty: %w", domain.ErrInvalidInput)
	}

	investor, err := s.investors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	investor.Code = code
	investor.UpdatedAt = time.Now().UTC()

	if err := s.investors.Update(ctx, investor); err != nil {
		return nil, fmt.Errorf("updating investor: %w", err)
	}
	return investor, nil
}

// Delete removes an investor
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.investors.Delete(ctx, id)
}

// ListInvestments retrieves the investment positions held by an investor
func (s *Service) ListInvestments(ctx context.Context, id uuid.UUID) ([]*domain.InvestorInvestment, error) {
	if _, err := s.investors.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.investors.ListInvestments(ctx, id)
}
