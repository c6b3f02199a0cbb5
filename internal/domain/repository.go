package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvestorRepository defines the interface for investor persistence operations
type InvestorRepository interface {
	// GetByID retrieves an investor by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Investor, error)

	// List retrieves all investors
	List(ctx context.Context) ([]*Investor, error)

	// Create creates a new investor
	Create(ctx context.Context, investor *Investor) error

	// Update updates an existing investor
	Update(ctx context.Context, investor *Investor) error

	// Delete removes an investor by its ID
	Delete(ctx context.Context, id uuid.UUID) error

	// ListInvestments retrieves the membership edges for an investor
	ListInvestments(ctx context.Context, investorID uuid.UUID) ([]*InvestorInvestment, error)
}

// InvestmentRepository defines the interface for investment persistence operations
type InvestmentRepository interface {
	// GetByID retrieves an investment by its ID, with the kind display
	// name resolved when the kind record exists
	GetByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// ListFundConstituents retrieves all investments whose owning-fund
	// reference equals the given fund ID
	ListFundConstituents(ctx context.Context, fundID uuid.UUID) ([]*Investment, error)
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// ListForInvestment retrieves all transactions of the given kind for
	// an investment dated at or before endDate
	ListForInvestment(ctx context.Context, investmentID uuid.UUID, kind TransactionKind, endDate time.Time) ([]*Transaction, error)
}

// QuoteRepository defines the interface for quote persistence operations
type QuoteRepository interface {
	// GetLatestBefore retrieves the single quote for the ISIN with the
	// maximum date at or before the given date. Returns ErrNotFound when
	// no such quote exists.
	GetLatestBefore(ctx context.Context, isin string, date time.Time) (*Quote, error)
}

// CityRepository defines the interface for city persistence operations
type CityRepository interface {
	// GetByID retrieves a city by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*City, error)

	// List retrieves all cities
	List(ctx context.Context) ([]*City, error)

	// Create creates a new city
	Create(ctx context.Context, city *City) error

	// Update updates an existing city
	Update(ctx context.Context, city *City) error

	// Delete removes a city by its ID
	Delete(ctx context.Context, id uuid.UUID) error
}
