package valuation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-manager/internal/domain"
)

func TestValueInstrument_NoKind(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := testService()

	inv := &domain.Investment{ID: uuid.New(), Code: "X-001"}

	value, err := svc.valueInstrument(ctx, inv, date("2023-06-01"), make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.IsZero())
}

func TestValueInstrument_UnknownKind(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := testService()

	inv := &domain.Investment{ID: uuid.New(), Code: "X-001", Kind: kindPtr(domain.InvestmentKind(42))}

	value, err := svc.valueInstrument(ctx, inv, date("2023-06-01"), make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.IsZero())
}

func TestStockValue_NoISIN(t *testing.T) {
	ctx := context.Background()
	svc, _, _, transactionRepo, _ := testService()

	stock := &domain.Investment{ID: uuid.New(), Kind: kindPtr(domain.KindStock)}

	value, err := svc.valueInstrument(ctx, stock, date("2023-06-01"), make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.IsZero())
	transactionRepo.AssertNotCalled(t, "ListForInvestment")
}

func TestStockValue_NonPositiveShareCount(t *testing.T) {
	ctx := context.Background()
	svc, _, _, transactionRepo, quoteRepo := testService()

	referenceDate := date("2023-06-01")
	stock := &domain.Investment{ID: uuid.New(), Kind: kindPtr(domain.KindStock), ISIN: "DE0001"}

	// Buys and sells cancel out below zero
	transactionRepo.On("ListForInvestment", ctx, stock.ID, domain.TxKindShares, referenceDate).
		Return([]*domain.Transaction{
			{Date: date("2023-01-01"), Amount: decimal.NewFromInt(10)},
			{Date: date("2023-02-01"), Amount: decimal.NewFromInt(-15)},
		}, nil)

	value, err := svc.valueInstrument(ctx, stock, referenceDate, make(visitedSet))

	// No negative holdings are priced, regardless of quote availability
	require.NoError(t, err)
	assert.True(t, value.IsZero())
	quoteRepo.AssertNotCalled(t, "GetLatestBefore")
}

// The selected quote is the one with the maximum date at or before the
// reference date. Two reference dates with no quote between them must value
// the stock identically; a reference date exactly on a quote date picks
// that quote.
func TestStockValue_QuoteSelectionStableBetweenQuoteDates(t *testing.T) {
	ctx := context.Background()
	svc, _, _, transactionRepo, _ := testService()

	stock := &domain.Investment{ID: uuid.New(), Kind: kindPtr(domain.KindStock), ISIN: "DE0001"}
	svc.quotes = &memoryQuoteRepo{quotes: []*domain.Quote{
		{ISIN: "DE0001", Date: date("2023-01-10"), PricePerShare: decimal.RequireFromString("5.00")},
		{ISIN: "DE0001", Date: date("2023-02-10"), PricePerShare: decimal.RequireFromString("6.00")},
		{ISIN: "DE0009", Date: date("2023-01-20"), PricePerShare: decimal.RequireFromString("9.00")},
	}}

	// One share held throughout
	transactionRepo.On("ListForInvestment", ctx, stock.ID, domain.TxKindShares, mock.Anything).
		Return([]*domain.Transaction{
			{Date: date("2023-01-01"), Amount: decimal.NewFromInt(1)},
		}, nil)

	valueAt := func(day string) decimal.Decimal {
		value, err := svc.valueInstrument(ctx, stock, date(day), make(visitedSet))
		require.NoError(t, err)
		return value
	}

	// No quote in (2023-01-15, 2023-02-05], so both dates resolve the same quote
	assert.True(t, valueAt("2023-01-15").Equal(valueAt("2023-02-05")))
	assert.True(t, valueAt("2023-01-15").Equal(decimal.RequireFromString("5.00")))

	// The quote date itself is included
	assert.True(t, valueAt("2023-02-10").Equal(decimal.RequireFromString("6.00")))

	// Before the first quote nothing is priced
	assert.True(t, valueAt("2023-01-05").IsZero())
}

func TestStockValue_NoQuote(t *testing.T) {
	ctx := context.Background()
	svc, _, _, transactionRepo, quoteRepo := testService()

	referenceDate := date("2023-06-01")
	stock := &domain.Investment{ID: uuid.New(), Kind: kindPtr(domain.KindStock), ISIN: "DE0001"}

	transactionRepo.On("ListForInvestment", ctx, stock.ID, domain.TxKindShares, referenceDate).
		Return([]*domain.Transaction{{Date: date("2023-01-01"), Amount: decimal.NewFromInt(10)}}, nil)
	quoteRepo.On("GetLatestBefore", ctx, "DE0001", referenceDate).Return(nil, domain.ErrNotFound)

	value, err := svc.valueInstrument(ctx, stock, referenceDate, make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.IsZero())
}

// Real estate scenario: land 100,000 on 2022-01-01 and building 50,000 on
// 2022-06-01 queried as of 2023-01-01 gives 150,000. An older land snapshot
// must not win over the latest one.
func TestRealEstateValue_LatestSnapshots(t *testing.T) {
	ctx := context.Background()
	svc, _, _, transactionRepo, _ := testService()

	referenceDate := date("2023-01-01")
	estate := &domain.Investment{ID: uuid.New(), Kind: kindPtr(domain.KindRealEstate)}

	transactionRepo.On("ListForInvestment", ctx, estate.ID, domain.TxKindLand, referenceDate).
		Return([]*domain.Transaction{
			{Date: date("2021-01-01"), Amount: decimal.NewFromInt(90000)},
			{Date: date("2022-01-01"), Amount: decimal.NewFromInt(100000)},
		}, nil)
	transactionRepo.On("ListForInvestment", ctx, estate.ID, domain.TxKindBuilding, referenceDate).
		Return([]*domain.Transaction{
			{Date: date("2022-06-01"), Amount: decimal.NewFromInt(50000)},
		}, nil)

	value, err := svc.valueInstrument(ctx, estate, referenceDate, make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(150000)), "value = %s", value)
}

func TestRealEstateValue_MissingBuildingSeries(t *testing.T) {
	ctx := context.Background()
	svc, _, _, transactionRepo, _ := testService()

	referenceDate := date("2023-01-01")
	estate := &domain.Investment{ID: uuid.New(), Kind: kindPtr(domain.KindRealEstate)}

	transactionRepo.On("ListForInvestment", ctx, estate.ID, domain.TxKindLand, referenceDate).
		Return([]*domain.Transaction{{Date: date("2022-01-01"), Amount: decimal.NewFromInt(100000)}}, nil)
	transactionRepo.On("ListForInvestment", ctx, estate.ID, domain.TxKindBuilding, referenceDate).
		Return([]*domain.Transaction{}, nil)

	value, err := svc.valueInstrument(ctx, estate, referenceDate, make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(100000)))
}

// Snapshots sharing a date have no defined secondary order; the first one
// returned wins. Pinned here so a change in behavior shows up.
func TestRealEstateValue_EqualDateTieBreak(t *testing.T) {
	ctx := context.Background()
	svc, _, _, transactionRepo, _ := testService()

	referenceDate := date("2023-01-01")
	estate := &domain.Investment{ID: uuid.New(), Kind: kindPtr(domain.KindRealEstate)}

	transactionRepo.On("ListForInvestment", ctx, estate.ID, domain.TxKindLand, referenceDate).
		Return([]*domain.Transaction{
			{Date: date("2022-01-01"), Amount: decimal.NewFromInt(70000)},
			{Date: date("2022-01-01"), Amount: decimal.NewFromInt(80000)},
		}, nil)
	transactionRepo.On("ListForInvestment", ctx, estate.ID, domain.TxKindBuilding, referenceDate).
		Return([]*domain.Transaction{}, nil)

	value, err := svc.valueInstrument(ctx, estate, referenceDate, make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(70000)))
}

// Fund scenario: investor owns 40% of a fund holding one stock worth 1,000;
// the receivable is 400.
func TestFundValue_PercentageOfConstituents(t *testing.T) {
	ctx := context.Background()
	svc, _, investmentRepo, transactionRepo, quoteRepo := testService()

	referenceDate := date("2023-06-01")
	fund := &domain.Investment{ID: uuid.New(), Code: "FND-001", Kind: kindPtr(domain.KindFund)}
	stock := &domain.Investment{
		ID:     uuid.New(),
		Code:   "STK-001",
		Kind:   kindPtr(domain.KindStock),
		ISIN:   "DE0001",
		FundID: &fund.ID,
	}

	transactionRepo.On("ListForInvestment", ctx, fund.ID, domain.TxKindPercentage, referenceDate).
		Return([]*domain.Transaction{{Date: date("2023-01-01"), Amount: decimal.NewFromInt(40)}}, nil)
	investmentRepo.On("ListFundConstituents", ctx, fund.ID).Return([]*domain.Investment{stock}, nil)
	transactionRepo.On("ListForInvestment", ctx, stock.ID, domain.TxKindShares, referenceDate).
		Return([]*domain.Transaction{{Date: date("2023-01-01"), Amount: decimal.NewFromInt(100)}}, nil)
	quoteRepo.On("GetLatestBefore", ctx, "DE0001", referenceDate).
		Return(&domain.Quote{ISIN: "DE0001", PricePerShare: decimal.NewFromInt(10)}, nil)

	value, err := svc.valueInstrument(ctx, fund, referenceDate, make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(400)), "value = %s", value)
}

func TestFundValue_NegativePercentageClampedToZero(t *testing.T) {
	ctx := context.Background()
	svc, _, investmentRepo, transactionRepo, _ := testService()

	referenceDate := date("2023-06-01")
	fund := &domain.Investment{ID: uuid.New(), Kind: kindPtr(domain.KindFund)}

	transactionRepo.On("ListForInvestment", ctx, fund.ID, domain.TxKindPercentage, referenceDate).
		Return([]*domain.Transaction{
			{Date: date("2023-01-01"), Amount: decimal.NewFromInt(30)},
			{Date: date("2023-02-01"), Amount: decimal.NewFromInt(-45)},
		}, nil)

	value, err := svc.valueInstrument(ctx, fund, referenceDate, make(visitedSet))

	// No constituents are resolved when the percentage is not positive
	require.NoError(t, err)
	assert.True(t, value.IsZero())
	investmentRepo.AssertNotCalled(t, "ListFundConstituents")
}

func TestFundValue_NoConstituents(t *testing.T) {
	ctx := context.Background()
	svc, _, investmentRepo, transactionRepo, _ := testService()

	referenceDate := date("2023-06-01")
	fund := &domain.Investment{ID: uuid.New(), Kind: kindPtr(domain.KindFund)}

	transactionRepo.On("ListForInvestment", ctx, fund.ID, domain.TxKindPercentage, referenceDate).
		Return([]*domain.Transaction{{Date: date("2023-01-01"), Amount: decimal.NewFromInt(50)}}, nil)
	investmentRepo.On("ListFundConstituents", ctx, fund.ID).Return([]*domain.Investment{}, nil)

	value, err := svc.valueInstrument(ctx, fund, referenceDate, make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.IsZero())
}

// Fund A holds fund B which holds fund A again. Valuation must terminate,
// with the cyclic edge contributing zero.
func TestFundValue_CycleBetweenFunds(t *testing.T) {
	ctx := context.Background()
	svc, _, investmentRepo, transactionRepo, _ := testService()

	referenceDate := date("2023-06-01")
	fundAID := uuid.New()
	fundBID := uuid.New()

	fundA := &domain.Investment{ID: fundAID, Code: "FND-A", Kind: kindPtr(domain.KindFund)}
	// B as a constituent of A, and A as a constituent of B
	fundBInA := &domain.Investment{ID: fundBID, Code: "FND-B", Kind: kindPtr(domain.KindFund), FundID: &fundAID}
	fundAInB := &domain.Investment{ID: fundAID, Code: "FND-A", Kind: kindPtr(domain.KindFund), FundID: &fundBID}

	transactionRepo.On("ListForInvestment", ctx, fundAID, domain.TxKindPercentage, referenceDate).
		Return([]*domain.Transaction{{Date: date("2023-01-01"), Amount: decimal.NewFromInt(50)}}, nil)
	transactionRepo.On("ListForInvestment", ctx, fundBID, domain.TxKindPercentage, referenceDate).
		Return([]*domain.Transaction{{Date: date("2023-01-01"), Amount: decimal.NewFromInt(100)}}, nil)
	investmentRepo.On("ListFundConstituents", ctx, fundAID).Return([]*domain.Investment{fundBInA}, nil)
	investmentRepo.On("ListFundConstituents", ctx, fundBID).Return([]*domain.Investment{fundAInB}, nil)

	value, err := svc.valueInstrument(ctx, fundA, referenceDate, make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.IsZero())
}

// A fund that lists itself as its own constituent. The guard triggers on
// the second visit because the constituent carries a fund membership.
func TestFundValue_SelfReferencingFund(t *testing.T) {
	ctx := context.Background()
	svc, _, investmentRepo, transactionRepo, _ := testService()

	referenceDate := date("2023-06-01")
	fundID := uuid.New()

	fund := &domain.Investment{ID: fundID, Code: "FND-SELF", Kind: kindPtr(domain.KindFund)}
	selfConstituent := &domain.Investment{ID: fundID, Code: "FND-SELF", Kind: kindPtr(domain.KindFund), FundID: &fundID}

	transactionRepo.On("ListForInvestment", ctx, fundID, domain.TxKindPercentage, referenceDate).
		Return([]*domain.Transaction{{Date: date("2023-01-01"), Amount: decimal.NewFromInt(100)}}, nil)
	investmentRepo.On("ListFundConstituents", ctx, fundID).Return([]*domain.Investment{selfConstituent}, nil)

	value, err := svc.valueInstrument(ctx, fund, referenceDate, make(visitedSet))

	require.NoError(t, err)
	assert.True(t, value.IsZero())
}
