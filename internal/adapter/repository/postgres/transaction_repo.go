package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portfolio-manager/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// ListForInvestment retrieves all transactions of the given kind for an
// investment dated at or before endDate
func (r *transactionRepository) ListForInvestment(ctx context.Context, investmentID uuid.UUID, kind domain.TransactionKind, endDate time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT id, investment_id, kind_id, transaction_date, amount, created_at
		FROM transactions
		WHERE investment_id = $1
		  AND kind_id = $2
		  AND transaction_date <= $3
		ORDER BY transaction_date
	`

	rows, err := r.db.QueryContext(ctx, query, investmentID, int(kind), endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var kindID int
		var amountStr string

		if err := rows.Scan(&tx.ID, &tx.InvestmentID, &kindID, &tx.Date, &amountStr, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		tx.Kind = domain.TransactionKind(kindID)
		tx.Amount = amount

		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
