package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote represents a price observation for an ISIN on a given date.
// Quotes are uniquely keyed by (ISIN, Date).
type Quote struct {
	ID            uuid.UUID
	ISIN          string
	Date          time.Time
	PricePerShare decimal.Decimal
	CreatedAt     time.Time
}
