package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/portfolio-manager/internal/domain"
)

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

const investmentColumns = `
	i.id, i.code, i.kind_id, k.name, i.isin, i.city_id, i.fund_id, i.created_at, i.updated_at
`

// GetByID retrieves an investment by its ID, with the kind display name
// resolved when the kind record exists
func (r *investmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments i
		LEFT JOIN investment_kinds k ON k.id = i.kind_id
		WHERE i.id = $1
	`

	investment, err := scanInvestment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}

	return investment, nil
}

// ListFundConstituents retrieves all investments whose owning-fund
// reference equals the given fund ID
func (r *investmentRepository) ListFundConstituents(ctx context.Context, fundID uuid.UUID) ([]*domain.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments i
		LEFT JOIN investment_kinds k ON k.id = i.kind_id
		WHERE i.fund_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fund constituents: %w", err)
	}
	defer rows.Close()

	var investments []*domain.Investment
	for rows.Next() {
		investment, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund constituent: %w", err)
		}
		investments = append(investments, investment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fund constituents: %w", err)
	}

	return investments, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvestment(row rowScanner) (*domain.Investment, error) {
	var investment domain.Investment
	var kindID sql.NullInt64
	var kindName sql.NullString
	var isin sql.NullString
	var cityID, fundID uuid.NullUUID

	err := row.Scan(
		&investment.ID,
		&investment.Code,
		&kindID,
		&kindName,
		&isin,
		&cityID,
		&fundID,
		&investment.CreatedAt,
		&investment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if kindID.Valid {
		kind := domain.InvestmentKind(kindID.Int64)
		investment.Kind = &kind
	}
	if kindName.Valid {
		investment.KindName = kindName.String
	}
	if isin.Valid {
		investment.ISIN = isin.String
	}
	if cityID.Valid {
		investment.CityID = &cityID.UUID
	}
	if fundID.Valid {
		investment.FundID = &fundID.UUID
	}

	return &investment, nil
}
