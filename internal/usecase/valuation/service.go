// Package valuation implements the portfolio valuation engine: it resolves
// an investor's holdings as of a reference date into a monetary total and a
// per-instrument breakdown, recursing through fund-of-funds structures.
package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/portfolio-manager/internal/domain"
)

// InstrumentValue is one line of the portfolio breakdown
type InstrumentValue struct {
	InvestmentID          uuid.UUID       `json:"instrumentId"`
	InvestmentCode        string          `json:"instrumentCode"`
	TypeName              string          `json:"instrumentTypeName"`
	Value                 decimal.Decimal `json:"value"`
	PercentageOfPortfolio decimal.Decimal `json:"percentageOfPortfolio"`
}

// Result is the outcome of one portfolio valuation call
type Result struct {
	InvestorID    uuid.UUID         `json:"investorId"`
	InvestorCode  string            `json:"investorCode"`
	ReferenceDate time.Time         `json:"referenceDate"`
	CalculatedAt  time.Time         `json:"calculationTimestamp"`
	TotalValue    decimal.Decimal   `json:"totalValue"`
	Instruments   []InstrumentValue `json:"instruments"`
}

// Service computes portfolio values from repository data. It holds no state
// across calls; every call fetches what it needs on demand.
type Service struct {
	investors    domain.InvestorRepository
	investments  domain.InvestmentRepository
	transactions domain.TransactionRepository
	quotes       domain.QuoteRepository
	log          zerolog.Logger

	// now supplies the calculation timestamp, injectable for tests
	now func() time.Time
}

// NewService creates a new valuation Service instance
func NewService(
	investorRepo domain.InvestorRepository,
	investmentRepo domain.InvestmentRepository,
	transactionRepo domain.TransactionRepository,
	quoteRepo domain.QuoteRepository,
	log zerolog.Logger,
) *Service {
	return &Service{
		investors:    investorRepo,
		investments:  investmentRepo,
		transactions: transactionRepo,
		quotes:       quoteRepo,
		log:          log.With().Str("component", "valuation").Logger(),
		now:          time.Now,
	}
}

// CalculatePortfolioValue values all holdings of the investor as of the
// reference date. An unknown investor is an error; a single instrument that
// cannot be resolved or valued is skipped with a warning so the rest of the
// portfolio still succeeds. Instruments valued at exactly zero are left out
// of the breakdown.
func (s *Service) CalculatePortfolioValue(ctx context.Context, investorID uuid.UUID, referenceDate time.Time) (*Result, error) {
	s.log.Info().
		Str("investor", investorID.String()).
		Str("reference_date", referenceDate.Format("2006-01-02")).
		Msg("Calculating portfolio value")

	investor, err := s.investors.GetByID(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("resolving investor %s: %w", investorID, err)
	}

	links, err := s.investors.ListInvestments(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("listing investments for investor %s: %w", investorID, err)
	}

	if len(links) == 0 {
		s.log.Info().Str("investor", investorID.String()).Msg("No investments found for investor")
		return s.emptyResult(investor, referenceDate), nil
	}

	total := decimal.Zero
	instruments := make([]InstrumentValue, 0, len(links))

	for _, link := range links {
		investment, err := s.investments.GetByID(ctx, link.InvestmentID)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("investment", link.InvestmentID.String()).
				Msg("Investment could not be resolved, skipping")
			continue
		}

		// Fresh visited set per top-level instrument
		value, err := s.valueInstrument(ctx, investment, referenceDate, make(visitedSet))
		if err != nil {
			s.log.Error().
				Err(err).
				Str("investment", investment.ID.String()).
				Msg("Error calculating investment value, skipping")
			continue
		}

		if value.GreaterThan(decimal.Zero) {
			instruments = append(instruments, InstrumentValue{
				InvestmentID:          investment.ID,
				InvestmentCode:        investment.Code,
				TypeName:              investment.TypeName(),
				Value:                 value,
				PercentageOfPortfolio: decimal.Zero,
			})
			total = total.Add(value)
		}
	}

	s.applyPortfolioPercentages(instruments, total)

	s.log.Info().
		Str("investor", investorID.String()).
		Str("total_value", total.String()).
		Msg("Portfolio calculation complete")

	return &Result{
		InvestorID:    investor.ID,
		InvestorCode:  investor.Code,
		ReferenceDate: referenceDate,
		CalculatedAt:  s.now().UTC(),
		TotalValue:    total,
		Instruments:   instruments,
	}, nil
}

// applyPortfolioPercentages fills in each instrument's share of the total,
// rounded to 2 decimal places. Left at zero when the total is zero.
// Rounding is half-to-even so complementary shares at an exact midpoint
// cannot both round up and push the breakdown past 100.00.
func (s *Service) applyPortfolioPercentages(instruments []InstrumentValue, total decimal.Decimal) {
	if !total.GreaterThan(decimal.Zero) {
		return
	}
	for i := range instruments {
		instruments[i].PercentageOfPortfolio = instruments[i].Value.
			Div(total).
			Mul(decimal.NewFromInt(100)).
			RoundBank(2)
	}
}

func (s *Service) emptyResult(investor *domain.Investor, referenceDate time.Time) *Result {
	return &Result{
		InvestorID:    investor.ID,
		InvestorCode:  investor.Code,
		ReferenceDate: referenceDate,
		CalculatedAt:  s.now().UTC(),
		TotalValue:    decimal.Zero,
		Instruments:   []InstrumentValue{},
	}
}
