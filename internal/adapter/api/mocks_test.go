package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/portfolio-manager/internal/adapter/bundesbank"
	"github.com/portfolio-manager/internal/domain"
	"github.com/portfolio-manager/internal/usecase/advisor"
	"github.com/portfolio-manager/internal/usecase/valuation"
)

// MockPortfolioCalculator is a mock implementation of PortfolioCalculator
type MockPortfolioCalculator struct {
	mock.Mock
}

func (m *MockPortfolioCalculator) CalculatePortfolioValue(ctx context.Context, investorID uuid.UUID, referenceDate time.Time) (*valuation.Result, error) {
	args := m.Called(ctx, investorID, referenceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*valuation.Result), args.Error(1)
}

// MockInvestorService is a mock implementation of InvestorService
type MockInvestorService struct {
	mock.Mock
}

func (m *MockInvestorService) List(ctx context.Context) ([]*domain.Investor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Investor), args.Error(1)
}

func (m *MockInvestorService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investor), args.Error(1)
}

func (m *MockInvestorService) Create(ctx context.Context, code string) (*domain.Investor, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investor), args.Error(1)
}

func (m *MockInvestorService) Update(ctx context.Context, id uuid.UUID, code string) (*domain.Investor, error) {
	args := m.Called(ctx, id, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investor), args.Error(1)
}

func (m *MockInvestorService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvestorService) ListInvestments(ctx context.Context, id uuid.UUID) ([]*domain.InvestorInvestment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InvestorInvestment), args.Error(1)
}

// MockCityService is a mock implementation of CityService
type MockCityService struct {
	mock.Mock
}

func (m *MockCityService) List(ctx context.Context) ([]*domain.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.City), args.Error(1)
}

func (m *MockCityService) GetByID(ctx context.Context, id uuid.UUID) (*domain.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.City), args.Error(1)
}

func (m *MockCityService) Create(ctx context.Context, code, name string) (*domain.City, error) {
	args := m.Called(ctx, code, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.City), args.Error(1)
}

func (m *MockCityService) Update(ctx context.Context, id uuid.UUID, code, name string) (*domain.City, error) {
	args := m.Called(ctx, id, code, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.City), args.Error(1)
}

func (m *MockCityService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAdvisorService is a mock implementation of AdvisorService
type MockAdvisorService struct {
	mock.Mock
}

func (m *MockAdvisorService) GenerateAdvice(ctx context.Context, portfolio *valuation.Result) *advisor.Advice {
	args := m.Called(ctx, portfolio)
	return args.Get(0).(*advisor.Advice)
}

// MockRateProvider is a mock implementation of RateProvider
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Latest(ctx context.Context, currency string) (bundesbank.Rate, error) {
	args := m.Called(ctx, currency)
	return args.Get(0).(bundesbank.Rate), args.Error(1)
}

type testMocks struct {
	valuation *MockPortfolioCalculator
	investors *MockInvestorService
	cities    *MockCityService
	advisor   *MockAdvisorService
	rates     *MockRateProvider
}

func testServer() (*Server, *testMocks) {
	m := &testMocks{
		valuation: new(MockPortfolioCalculator),
		investors: new(MockInvestorService),
		cities:    new(MockCityService),
		advisor:   new(MockAdvisorService),
		rates:     new(MockRateProvider),
	}
	s := New(Config{
		Host:      "127.0.0.1",
		Port:      "0",
		Log:       zerolog.Nop(),
		Valuation: m.valuation,
		Investors: m.investors,
		Cities:    m.cities,
		Advisor:   m.advisor,
		Rates:     m.rates,
	})
	return s, m
}

func doRequest(s *Server, method, target string, body *string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(*body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}
