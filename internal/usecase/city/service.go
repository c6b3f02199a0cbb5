package city

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio-manager/internal/domain"
)

// Service handles city master-data operations
type Service struct {
	cities domain.CityRepository
}

// NewService creates a new city Service instance
func NewService(cityRepo domain.CityRepository) *Service {
	return &Service{cities: cityRepo}
}

// List retrieves all cities
func (s *Service) List(ctx context.Context) ([]*domain.City, error) {
	return s.cities.List(ctx)
}

// GetByID retrieves a single city
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.City, error) {
	return s.cities.GetByID(ctx, id)
}

// Create registers a new city. The code is mandatory, the name optional.
func (s *Service) Create(ctx context.Context, code, name string) (*domain.City, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("city code must not be empty: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	city := &domain.City{
		ID:        uuid.New(),
		Code:      code,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.cities.Create(ctx, city); err != nil {
		return nil, fmt.Errorf("creating city: %w", err)
	}
	return city, nil
}

// Update changes a city's code and name
func (s *Service) Update(ctx context.Context, id uuid.UUID, code, name string) (*domain.City, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("city code must not be empty: %w", domain.ErrInvalidInput)
	}

	city, err := s.cities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	city.Code = code
	city.Name = strings.TrimSpace(name)
	city.UpdatedAt = time.Now().UTC()

	if err := s.cities.Update(ctx, city); err != nil {
		return nil, fmt.Errorf("updating city: %w", err)
	}
	return city, nil
}

// Delete removes a city
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.cities.Delete(ctx, id)
}
