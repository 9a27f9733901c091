package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// DefaultCommitTimeout is the deadline a ledger commit gets when the caller
// does not configure one explicitly (§5 "Timeouts").
const DefaultCommitTimeout = 2 * time.Second

// Ledger is the per-player balance and append-only transaction log
// described in §4.4. All mutation goes through Commit while the caller
// holds the lock returned by Lock.
type Ledger struct {
	balances      BalanceStore
	transactions  TransactionRepository
	clock         shared.Clock
	locks         *lockRegistry
	commitTimeout time.Duration
}

// NewLedger builds a Ledger over the given storage ports.
func NewLedger(balances BalanceStore, transactions TransactionRepository, clock shared.Clock) *Ledger {
	return &Ledger{
		balances:      balances,
		transactions:  transactions,
		clock:         clock,
		locks:         newLockRegistry(),
		commitTimeout: DefaultCommitTimeout,
	}
}

// WithCommitTimeout overrides the default ledger commit deadline.
func (l *Ledger) WithCommitTimeout(d time.Duration) *Ledger {
	l.commitTimeout = d
	return l
}

// Lock acquires the per-player lock that serializes all commits for
// playerID, returning the unlock function. Callers must hold this lock for
// the full read-quote-commit sequence described in §4.7.
func (l *Ledger) Lock(playerID shared.PlayerID) func() {
	m := l.locks.lockFor(playerID.Value())
	m.Lock()
	return m.Unlock
}

// Balance returns the player's current balance. This is a snapshot read;
// callers needing a consistent read-then-commit must hold the per-player
// lock across both calls.
func (l *Ledger) Balance(ctx context.Context, playerID shared.PlayerID) (decimal.Decimal, error) {
	return l.balances.GetBalance(ctx, playerID)
}

// SetBalance overwrites a player's balance directly, bypassing the
// transaction log. This is the admin override path; it still goes under
// the per-player lock so it cannot race a concurrent trade.
func (l *Ledger) SetBalance(ctx context.Context, playerID shared.PlayerID, balance decimal.Decimal) error {
	return l.balances.SetBalance(ctx, playerID, balance)
}

// Commit applies txn's balance delta and persists the new balance and the
// transaction row in one durable operation (§4.4). The caller must already
// hold the per-player lock for playerID. A debit that would drive the
// balance negative is rejected before any write is attempted. Exceeding
// the commit deadline surfaces as ErrStorageTimeout and leaves both the
// balance and the transaction log untouched, per §5 "Timeouts". A commit
// failure classified as transient is retried up to maxCommitRetries times
// with a doubling, jittered backoff before it gives up; a non-transient
// failure is returned immediately. Either way the last failure comes back
// wrapped in a shared.ErrStorageError.
func (l *Ledger) Commit(ctx context.Context, txn *Transaction) (decimal.Decimal, error) {
	balance, err := l.balances.GetBalance(ctx, txn.PlayerID())
	if err != nil {
		return decimal.Zero, err
	}

	newBalance := balance.Add(txn.BalanceDelta())
	if newBalance.IsNegative() {
		return decimal.Zero, &ErrInsufficientFunds{
			PlayerID:  txn.PlayerID().String(),
			Balance:   balance,
			Requested: txn.Total(),
		}
	}

	commitCtx, cancel := context.WithTimeout(ctx, l.commitTimeout)
	defer cancel()

	var commitErr error
	for attempt := 0; attempt <= maxCommitRetries; attempt++ {
		commitErr = l.balances.CommitTransaction(commitCtx, txn, newBalance)
		if commitErr == nil {
			return newBalance, nil
		}
		if commitCtx.Err() == context.DeadlineExceeded {
			return decimal.Zero, &ErrStorageTimeout{PlayerID: txn.PlayerID().String(), Timeout: l.commitTimeout}
		}
		if attempt == maxCommitRetries || !IsTransient(commitErr) {
			break
		}
		l.clock.Sleep(retryBackoff(attempt))
	}

	return decimal.Zero, &shared.ErrStorageError{Op: "ledger commit", Cause: commitErr}
}

// History returns the player's transactions per opts, delegated straight to
// the repository port.
func (l *Ledger) History(ctx context.Context, playerID shared.PlayerID, opts QueryOptions) ([]*Transaction, int, error) {
	txns, err := l.transactions.FindByPlayer(ctx, playerID, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := l.transactions.CountByPlayer(ctx, playerID, opts)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
