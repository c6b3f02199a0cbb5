package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvestmentKind is the closed enumeration of investment types.
// The numeric identifiers match the investment_kinds reference table.
type InvestmentKind int

const (
	KindFund       InvestmentKind = 1
	KindStock      InvestmentKind = 2
	KindRealEstate InvestmentKind = 3
)

// Name returns the display name for a kind, or "Unknown" for any
// identifier outside the closed set.
func (k InvestmentKind) Name() string {
	switch k {
	case KindFund:
		return "Fund"
	case KindStock:
		return "Stock"
	case KindRealEstate:
		return "Real Estate"
	default:
		return "Unknown"
	}
}

// Investment represents a single instrument: a stock, a real-estate parcel
// or a fund. Kind is optional; an investment without a kind cannot be valued.
type Investment struct {
	ID   uuid.UUID
	Code string

	// Kind determines which valuation rule applies. Nil when the record
	// carries no type.
	Kind *InvestmentKind

	// KindName is the display name resolved from the investment_kinds
	// table, empty when unresolved.
	KindName string

	// ISIN is set for stocks only.
	ISIN string

	// FundID references the fund investment this instrument belongs to.
	// Non-nil only for fund constituents; a fund itself has a nil FundID
	// unless it is in turn held inside another fund.
	FundID *uuid.UUID

	// CityID references the locality of a real-estate investment.
	CityID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TypeName resolves the display name for the investment: the resolved kind
// record's name when available, otherwise the static mapping from the known
// kind identifiers, otherwise "Unknown".
func (i *Investment) TypeName() string {
	if i.KindName != "" {
		return i.KindName
	}
	if i.Kind != nil {
		return i.Kind.Name()
	}
	return "Unknown"
}
