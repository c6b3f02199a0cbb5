package scheduler

import (
	"context"
	"time"

	"github.com/portfolio-manager/internal/adapter/bundesbank"
)

// RatesRefreshJob keeps the EUR reference-rate cache warm
type RatesRefreshJob struct {
	rates      *bundesbank.RateService
	currencies []string
}

// NewRatesRefreshJob creates a job refreshing the given currencies
func NewRatesRefreshJob(rates *bundesbank.RateService, currencies []string) *RatesRefreshJob {
	return &RatesRefreshJob{rates: rates, currencies: currencies}
}

// Name implements Job
func (j *RatesRefreshJob) Name() string {
	return "rates-refresh"
}

// Run implements Job
func (j *RatesRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	j.rates.Refresh(ctx, j.currencies)
	return nil
}
