package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// TransactionRepository defines persistence operations for the append-only
// transaction log.
type TransactionRepository interface {
	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id TransactionID, playerID shared.PlayerID) (*Transaction, error)

	// FindByPlayer retrieves transactions for a player with optional filtering.
	FindByPlayer(ctx context.Context, playerID shared.PlayerID, opts QueryOptions) ([]*Transaction, error)

	// CountByPlayer returns the count of transactions matching the criteria.
	CountByPlayer(ctx context.Context, playerID shared.PlayerID, opts QueryOptions) (int, error)
}

// BalanceStore persists per-player balances and commits transaction rows in
// the same durable operation the balance update requires (§4.4): a commit
// either lands both the new balance and the transaction row, or neither.
type BalanceStore interface {
	// GetBalance returns the player's current balance, defaulting to zero
	// for a player that has never transacted.
	GetBalance(ctx context.Context, playerID shared.PlayerID) (decimal.Decimal, error)

	// SetBalance overwrites a player's balance directly (the admin path,
	// §6's PUT /shop/admin/balance). It does not append a transaction row.
	SetBalance(ctx context.Context, playerID shared.PlayerID, balance decimal.Decimal) error

	// CommitTransaction persists newBalance and txn atomically.
	CommitTransaction(ctx context.Context, txn *Transaction, newBalance decimal.Decimal) error
}

// QueryOptions defines filtering and pagination options for transaction
// queries.
type QueryOptions struct {
	StartDate *time.Time
	EndDate   *time.Time

	Direction *Direction

	Limit  int
	Offset int

	// OrderBy is "created_at ASC" or "created_at DESC" (default DESC).
	OrderBy string
}

// DefaultQueryOptions returns default query options.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Limit:   50,
		Offset:  0,
		OrderBy: "created_at DESC",
	}
}
