package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investor represents an investor entity in the domain layer
type Investor struct {
	ID        uuid.UUID
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvestorInvestment is the membership edge linking an investor to an
// investment position. The initial date/amount are informational only and
// play no role in valuation.
type InvestorInvestment struct {
	InvestorID    uuid.UUID
	InvestmentID  uuid.UUID
	InitialDate   *time.Time
	InitialAmount *decimal.Decimal
}
