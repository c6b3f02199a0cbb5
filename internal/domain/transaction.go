package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind is the closed enumeration of transaction types. The
// numeric identifiers match the transaction_kinds reference table.
//
// Percentage and share transactions are cumulative deltas: the position at a
// date is the sum of all amounts up to that date. Land and building
// transactions are absolute snapshots: the latest one at or before the date
// is the value.
type TransactionKind int

const (
	TxKindPercentage TransactionKind = 1
	TxKindShares     TransactionKind = 2
	TxKindLand       TransactionKind = 3
	TxKindBuilding   TransactionKind = 4
)

// Transaction represents a single ledger event against an investment. The
// meaning of Amount depends entirely on Kind; no currency conversion is
// implied.
type Transaction struct {
	ID           uuid.UUID
	InvestmentID uuid.UUID
	Kind         TransactionKind
	Date         time.Time
	Amount       decimal.Decimal
	CreatedAt    time.Time
}
