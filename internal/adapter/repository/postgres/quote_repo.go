package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfolio-manager/internal/domain"
)

// quoteRepository implements domain.QuoteRepository
type quoteRepository struct {
	db *DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *DB) domain.QuoteRepository {
	return &quoteRepository{db: db}
}

// GetLatestBefore retrieves the single quote for the ISIN with the maximum
// date at or before the given date
func (r *quoteRepository) GetLatestBefore(ctx context.Context, isin string, date time.Time) (*domain.Quote, error) {
	query := `
		SELECT id, isin, quote_date, price_per_share, created_at
		FROM quotes
		WHERE isin = $1 AND quote_date <= $2
		ORDER BY quote_date DESC
		LIMIT 1
	`

	var quote domain.Quote
	var priceStr string

	err := r.db.QueryRowContext(ctx, query, isin, date).Scan(
		&quote.ID,
		&quote.ISIN,
		&quote.Date,
		&priceStr,
		&quote.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("quote for %s at %s: %w", isin, date.Format("2006-01-02"), domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest quote: %w", err)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price_per_share: %w", err)
	}
	quote.PricePerShare = price

	return &quote, nil
}
