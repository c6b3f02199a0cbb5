package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/portfolio-manager/internal/domain"
)

// cityRepository implements domain.CityRepository
type cityRepository struct {
	db *DB
}

// NewCityRepository creates a new city repository
func NewCityRepository(db *DB) domain.CityRepository {
	return &cityRepository{db: db}
}

// GetByID retrieves a city by its ID
func (r *cityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.City, error) {
	query := `
		SELECT id, code, name, created_at, updated_at
		FROM cities
		WHERE id = $1
	`

	var city domain.City
	var name sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&city.ID,
		&city.Code,
		&name,
		&city.CreatedAt,
		&city.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("city %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	city.Name = name.String

	return &city, nil
}

// List retrieves all cities
func (r *cityRepository) List(ctx context.Context) ([]*domain.City, error) {
	query := `
		SELECT id, code, name, created_at, updated_at
		FROM cities
		ORDER BY code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	var cities []*domain.City
	for rows.Next() {
		var city domain.City
		var name sql.NullString
		if err := rows.Scan(&city.ID, &city.Code, &name, &city.CreatedAt, &city.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		city.Name = name.String
		cities = append(cities, &city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cities: %w", err)
	}

	return cities, nil
}

// Create creates a new city
func (r *cityRepository) Create(ctx context.Context, city *domain.City) error {
	query := `
		INSERT INTO cities (id, code, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, city.ID, city.Code, city.Name, city.CreatedAt, city.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert city: %w", err)
	}

	return nil
}

// Update updates an existing city
func (r *cityRepository) Update(ctx context.Context, city *domain.City) error {
	query := `
		UPDATE cities
		SET code = $2, name = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, city.ID, city.Code, city.Name, city.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update city: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("city %s: %w", city.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a city by its ID
func (r *cityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete city: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("city %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
