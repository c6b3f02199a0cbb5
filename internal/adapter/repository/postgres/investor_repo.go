package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portfolio-manager/internal/domain"
)

// investorRepository implements domain.InvestorRepository
type investorRepository struct {
	db *DB
}

// NewInvestorRepository creates a new investor repository
func NewInvestorRepository(db *DB) domain.InvestorRepository {
	return &investorRepository{db: db}
}

// GetByID retrieves an investor by its ID
func (r *investorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investor, error) {
	query := `
		SELECT id, code, created_at, updated_at
		FROM investors
		WHERE id = $1
	`

	var investor domain.Investor
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&investor.ID,
		&investor.Code,
		&investor.CreatedAt,
		&investor.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("investor %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get investor: %w", err)
	}

	return &investor, nil
}

// List retrieves all investors
func (r *investorRepository) List(ctx context.Context) ([]*domain.Investor, error) {
	query := `
		SELECT id, code, created_at, updated_at
		FROM investors
		ORDER BY code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list investors: %w", err)
	}
	defer rows.Close()

	var investors []*domain.Investor
	for rows.Next() {
		var investor domain.Investor
		if err := rows.Scan(&investor.ID, &investor.Code, &investor.CreatedAt, &investor.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan investor: %w", err)
		}
		investors = append(investors, &investor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investors: %w", err)
	}

	return investors, nil
}

// Create creates a new investor
func (r *investorRepository) Create(ctx context.Context, investor *domain.Investor) error {
	query := `
		INSERT INTO investors (id, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		investor.ID,
		investor.Code,
		investor.CreatedAt,
		investor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert investor: %w", err)
	}

	return nil
}

// Update updates an existing investor
func (r *investorRepository) Update(ctx context.Context, investor *domain.Investor) error {
	query := `
		UPDATE investors
		SET code = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, investor.ID, investor.Code, investor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update investor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("investor %s: %w", investor.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an investor by its ID
func (r *investorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM investors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("investor %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListInvestments retrieves the membership edges for an investor
func (r *investorRepository) ListInvestments(ctx context.Context, investorID uuid.UUID) ([]*domain.InvestorInvestment, error) {
	query := `
		SELECT investor_id, investment_id, initial_date, initial_amount
		FROM investor_investments
		WHERE investor_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investor investments: %w", err)
	}
	defer rows.Close()

	var links []*domain.InvestorInvestment
	for rows.Next() {
		var link domain.InvestorInvestment
		var initialDate sql.NullTime
		var initialAmount sql.NullString

		if err := rows.Scan(&link.InvestorID, &link.InvestmentID, &initialDate, &initialAmount); err != nil {
			return nil, fmt.Errorf("failed to scan investor investment: %w", err)
		}

		if initialDate.Valid {
			link.InitialDate = &initialDate.Time
		}
		if initialAmount.Valid {
			amount, err := decimal.NewFromString(initialAmount.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse initial_amount: %w", err)
			}
			link.InitialAmount = &amount
		}

		links = append(links, &link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investor investments: %w", err)
	}

	return links, nil
}
