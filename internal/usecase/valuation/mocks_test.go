package valuation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/portfolio-manager/internal/domain"
)

// MockInvestorRepository is a mock implementation of InvestorRepository for testing
type MockInvestorRepository struct {
	mock.Mock
}

func (m *MockInvestorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investor), args.Error(1)
}

func (m *MockInvestorRepository) List(ctx context.Context) ([]*domain.Investor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Investor), args.Error(1)
}

func (m *MockInvestorRepository) Create(ctx context.Context, investor *domain.Investor) error {
	args := m.Called(ctx, investor)
	return args.Error(0)
}

func (m *MockInvestorRepository) Update(ctx context.Context, investor *domain.Investor) error {
	args := m.Called(ctx, investor)
	return args.Error(0)
}

func (m *MockInvestorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvestorRepository) ListInvestments(ctx context.Context, investorID uuid.UUID) ([]*domain.InvestorInvestment, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InvestorInvestment), args.Error(1)
}

// MockInvestmentRepository is a mock implementation of InvestmentRepository for testing
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ListFundConstituents(ctx context.Context, fundID uuid.UUID) ([]*domain.Investment, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Investment), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListForInvestment(ctx context.Context, investmentID uuid.UUID, kind domain.TransactionKind, endDate time.Time) ([]*domain.Transaction, error) {
	args := m.Called(ctx, investmentID, kind, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

// MockQuoteRepository is a mock implementation of QuoteRepository for testing
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) GetLatestBefore(ctx context.Context, isin string, date time.Time) (*domain.Quote, error) {
	args := m.Called(ctx, isin, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

// memoryQuoteRepo is an in-memory QuoteRepository implementing the same
// selection rule as the SQL adapter: the quote with the maximum date at or
// before the requested date, ErrNotFound when none qualifies.
type memoryQuoteRepo struct {
	quotes []*domain.Quote
}

func (r *memoryQuoteRepo) GetLatestBefore(_ context.Context, isin string, date time.Time) (*domain.Quote, error) {
	var latest *domain.Quote
	for _, q := range r.quotes {
		if q.ISIN != isin || q.Date.After(date) {
			continue
		}
		if latest == nil || q.Date.After(latest.Date) {
			latest = q
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

// testService wires a Service with fresh mocks and a silent logger
func testService() (*Service, *MockInvestorRepository, *MockInvestmentRepository, *MockTransactionRepository, *MockQuoteRepository) {
	investorRepo := new(MockInvestorRepository)
	investmentRepo := new(MockInvestmentRepository)
	transactionRepo := new(MockTransactionRepository)
	quoteRepo := new(MockQuoteRepository)

	svc := NewService(investorRepo, investmentRepo, transactionRepo, quoteRepo, zerolog.Nop())
	return svc, investorRepo, investmentRepo, transactionRepo, quoteRepo
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func kindPtr(k domain.InvestmentKind) *domain.InvestmentKind {
	return &k
}
