package valuation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/portfolio-manager/internal/domain"
)

// visitedSet guards fund recursion against cycles. It collects the IDs of
// fund-member instruments on the active recursion path and is scoped to one
// top-level instrument valuation; it must never be shared across calls.
type visitedSet map[uuid.UUID]struct{}

// valueInstrument dispatches to the kind-specific valuation rule. Data
// quality problems (missing kind, missing ISIN, no quote, cycles) resolve to
// zero with a warning; only repository failures surface as errors.
func (s *Service) valueInstrument(ctx context.Context, inv *domain.Investment, referenceDate time.Time, visited visitedSet) (decimal.Decimal, error) {
	// Cycle guard keys on fund membership: only instruments held inside a
	// fund are tracked on the recursion path.
	if inv.FundID != nil {
		if _, seen := visited[inv.ID]; seen {
			s.log.Warn().
				Str("investment", inv.ID.String()).
				Msg("Circular fund reference detected")
			return decimal.Zero, nil
		}
		visited[inv.ID] = struct{}{}
	}

	if inv.Kind == nil {
		s.log.Warn().
			Str("investment", inv.ID.String()).
			Msg("Investment has no kind")
		return decimal.Zero, nil
	}

	switch *inv.Kind {
	case domain.KindStock:
		return s.stockValue(ctx, inv, referenceDate)
	case domain.KindRealEstate:
		return s.realEstateValue(ctx, inv, referenceDate)
	case domain.KindFund:
		return s.fundValue(ctx, inv, referenceDate, visited)
	default:
		s.log.Warn().
			Str("investment", inv.ID.String()).
			Int("kind", int(*inv.Kind)).
			Msg("Unknown investment kind")
		return decimal.Zero, nil
	}
}

// stockValue is share count times the latest quoted price. The share count
// is the cumulative sum of share-delta transactions up to the reference
// date; non-positive holdings are not priced.
func (s *Service) stockValue(ctx context.Context, inv *domain.Investment, referenceDate time.Time) (decimal.Decimal, error) {
	if inv.ISIN == "" {
		s.log.Warn().
			Str("investment", inv.ID.String()).
			Msg("Stock investment has no ISIN")
		return decimal.Zero, nil
	}

	shareCount, err := s.sumTransactions(ctx, inv.ID, domain.TxKindShares, referenceDate)
	if err != nil {
		return decimal.Zero, err
	}
	if !shareCount.IsPositive() {
		s.log.Info().
			Str("isin", inv.ISIN).
			Str("reference_date", referenceDate.Format("2006-01-02")).
			Msg("No shares held for stock")
		return decimal.Zero, nil
	}

	quote, err := s.quotes.GetLatestBefore(ctx, inv.ISIN, referenceDate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().
				Str("isin", inv.ISIN).
				Str("reference_date", referenceDate.Format("2006-01-02")).
				Msg("No quote found for stock")
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	if !quote.PricePerShare.IsPositive() {
		return decimal.Zero, nil
	}

	value := shareCount.Mul(quote.PricePerShare)

	s.log.Debug().
		Str("isin", inv.ISIN).
		Str("shares", shareCount.String()).
		Str("price", quote.PricePerShare.String()).
		Str("value", value.String()).
		Msg("Stock valued")

	return value, nil
}

// realEstateValue is the latest land snapshot plus the latest building
// snapshot at or before the reference date. A missing snapshot series
// contributes zero.
func (s *Service) realEstateValue(ctx context.Context, inv *domain.Investment, referenceDate time.Time) (decimal.Decimal, error) {
	landValue, err := s.latestSnapshot(ctx, inv, domain.TxKindLand, referenceDate, "land")
	if err != nil {
		return decimal.Zero, err
	}

	buildingValue, err := s.latestSnapshot(ctx, inv, domain.TxKindBuilding, referenceDate, "building")
	if err != nil {
		return decimal.Zero, err
	}

	total := landValue.Add(buildingValue)

	s.log.Debug().
		Str("investment", inv.ID.String()).
		Str("land", landValue.String()).
		Str("building", buildingValue.String()).
		Str("value", total.String()).
		Msg("Real estate valued")

	return total, nil
}

// latestSnapshot returns the amount of the snapshot transaction with the
// most recent date. On equal dates the first one returned by the repository
// wins; snapshot series carry no defined secondary order.
func (s *Service) latestSnapshot(ctx context.Context, inv *domain.Investment, kind domain.TransactionKind, referenceDate time.Time, component string) (decimal.Decimal, error) {
	txns, err := s.transactions.ListForInvestment(ctx, inv.ID, kind, referenceDate)
	if err != nil {
		return decimal.Zero, err
	}
	if len(txns) == 0 {
		s.log.Warn().
			Str("investment", inv.ID.String()).
			Str("component", component).
			Msg("No snapshot value found for property")
		return decimal.Zero, nil
	}

	latest := txns[0]
	for _, t := range txns[1:] {
		if t.Date.After(latest.Date) {
			latest = t
		}
	}
	return latest.Amount, nil
}

// fundValue is the investor's ownership percentage applied to the recursive
// total of the fund's constituents. The percentage is the cumulative sum of
// percentage-delta transactions, floored at zero.
func (s *Service) fundValue(ctx context.Context, fund *domain.Investment, referenceDate time.Time, visited visitedSet) (decimal.Decimal, error) {
	percentage, err := s.sumTransactions(ctx, fund.ID, domain.TxKindPercentage, referenceDate)
	if err != nil {
		return decimal.Zero, err
	}
	if !percentage.IsPositive() {
		s.log.Info().
			Str("fund", fund.ID.String()).
			Msg("No investment percentage in fund")
		return decimal.Zero, nil
	}

	totalFundValue, err := s.totalFundValue(ctx, fund, referenceDate, visited)
	if err != nil {
		return decimal.Zero, err
	}

	investorShare := percentage.Div(decimal.NewFromInt(100)).Mul(totalFundValue)

	s.log.Debug().
		Str("fund", fund.ID.String()).
		Str("percentage", percentage.String()).
		Str("fund_total", totalFundValue.String()).
		Str("share", investorShare.String()).
		Msg("Fund valued")

	return investorShare, nil
}

// totalFundValue sums the recursive valuations of all constituents of the
// fund, reusing the visited set of the active recursion path.
func (s *Service) totalFundValue(ctx context.Context, fund *domain.Investment, referenceDate time.Time, visited visitedSet) (decimal.Decimal, error) {
	constituents, err := s.investments.ListFundConstituents(ctx, fund.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(constituents) == 0 {
		s.log.Warn().
			Str("fund", fund.ID.String()).
			Msg("Fund has no investments")
		return decimal.Zero, nil
	}

	total := decimal.Zero
	for _, constituent := range constituents {
		value, err := s.valueInstrument(ctx, constituent, referenceDate, visited)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(value)
	}
	return total, nil
}

// sumTransactions adds up the signed amounts of all transactions of one
// kind for an investment dated at or before the end date.
func (s *Service) sumTransactions(ctx context.Context, investmentID uuid.UUID, kind domain.TransactionKind, endDate time.Time) (decimal.Decimal, error) {
	txns, err := s.transactions.ListForInvestment(ctx, investmentID, kind, endDate)
	if err != nil {
		return decimal.Zero, err
	}
	return lo.Reduce(txns, func(sum decimal.Decimal, t *domain.Transaction, _ int) decimal.Decimal {
		return sum.Add(t.Amount)
	}, decimal.Zero), nil
}
