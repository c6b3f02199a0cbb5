package bundesbank

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const cacheTTL = 6 * time.Hour

type cacheEntry struct {
	rate      Rate
	expiresAt time.Time
}

// RateService serves EUR reference rates out of an in-memory cache,
// fetching through to the Bundesbank API on a miss. Safe for concurrent
// use.
type RateService struct {
	client *Client
	log    zerolog.Logger

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewRateService creates a new RateService instance
func NewRateService(client *Client, log zerolog.Logger) *RateService {
	return &RateService{
		client:  client,
		log:     log.With().Str("component", "rates").Logger(),
		entries: make(map[string]cacheEntry),
	}
}

// Latest returns the most recent EUR reference rate for a currency, served
// from cache when fresh.
func (s *RateService) Latest(ctx context.Context, currency string) (Rate, error) {
	key := strings.ToUpper(currency)

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.rate, nil
	}

	rate, err := s.client.FetchLatestRate(ctx, key)
	if err != nil {
		return Rate{}, fmt.Errorf("refreshing rate for %s: %w", key, err)
	}

	s.store(key, rate)
	return rate, nil
}

// Refresh fetches all given currencies into the cache. Failures are logged
// per currency; the job keeps going.
func (s *RateService) Refresh(ctx context.Context, currencies []string) {
	for _, currency := range currencies {
		rate, err := s.client.FetchLatestRate(ctx, currency)
		if err != nil {
			s.log.Warn().Err(err).Str("currency", currency).Msg("Rate refresh failed")
			continue
		}
		s.store(strings.ToUpper(currency), rate)
	}
}

func (s *RateService) store(key string, rate Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cacheEntry{
		rate:      rate,
		expiresAt: time.Now().Add(cacheTTL),
	}
}
