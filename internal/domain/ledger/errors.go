package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction represents validation errors for transactions.
type ErrInvalidTransaction struct {
	Field  string
	Reason string
}

func (e *ErrInvalidTransaction) Error() string {
	return fmt.Sprintf("invalid transaction: %s - %s", e.Field, e.Reason)
}

// ErrBalanceInvariantViolation represents a mismatch between a transaction's
// declared total and unit*quantity beyond the one-cent tolerance in §3.
type ErrBalanceInvariantViolation struct {
	BalanceBefore decimal.Decimal
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Expected      decimal.Decimal
}

func (e *ErrBalanceInvariantViolation) Error() string {
	return fmt.Sprintf("balance invariant violated: expected total %s, got %s",
		e.Expected.String(), e.Amount.String())
}

// ErrTransactionNotFound represents errors when a transaction cannot be found.
type ErrTransactionNotFound struct {
	ID       string
	PlayerID string
}

func (e *ErrTransactionNotFound) Error() string {
	return fmt.Sprintf("transaction not found: id=%s, player_id=%s", e.ID, e.PlayerID)
}

// ErrInsufficientFunds is returned by the ledger when a debit would drive a
// player's balance negative.
type ErrInsufficientFunds struct {
	PlayerID  string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds for player %s: balance=%s requested=%s",
		e.PlayerID, e.Balance.String(), e.Requested.String())
}

// ErrStorageTimeout is returned when a ledger commit exceeds its deadline.
// The transaction did not happen: neither the balance nor the transaction
// log were touched.
type ErrStorageTimeout struct {
	PlayerID string
	Timeout  time.Duration
}

func (e *ErrStorageTimeout) Error() string {
	return fmt.Sprintf("ledger commit for player %s exceeded %s", e.PlayerID, e.Timeout)
}

// ErrTransientStorage wraps a storage failure that never reached a durable
// state (a dropped connection, a busy database, a serialization conflict)
// so Commit can safely retry it without risking a double-applied
// transaction. Repository adapters return this instead of a bare error for
// the conditions they recognize as transient.
type ErrTransientStorage struct {
	Err error
}

func (e *ErrTransientStorage) Error() string {
	return fmt.Sprintf("transient storage error: %s", e.Err)
}

func (e *ErrTransientStorage) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err, or any error it wraps, is a
// transient storage failure safe to retry.
func IsTransient(err error) bool {
	var transient *ErrTransientStorage
	return errors.As(err, &transient)
}
