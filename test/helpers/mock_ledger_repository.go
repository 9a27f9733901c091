package helpers

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

var errTransientProbe = errors.New("mock transient storage failure")

// MockLedgerRepository is an in-memory test double implementing both
// ledger.BalanceStore and ledger.TransactionRepository, so CommitTransaction
// can be exercised without a real database. A StorageErr, when set, makes
// every CommitTransaction call fail, to exercise §7's StorageError path.
// TransientFailures, when positive, makes that many leading
// CommitTransaction calls fail with a transient error before the commit is
// allowed to succeed, to exercise the storage retry path.
type MockLedgerRepository struct {
	mu           sync.Mutex
	balances     map[string]decimal.Decimal
	transactions []*ledger.Transaction

	StorageErr        error
	TransientFailures int
}

// NewMockLedgerRepository creates a new empty mock ledger repository.
func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{balances: make(map[string]decimal.Decimal)}
}

// SeedBalance sets a player's starting balance for test setup.
func (m *MockLedgerRepository) SeedBalance(playerID shared.PlayerID, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[playerID.Value()] = balance
}

// GetBalance implements ledger.BalanceStore.
func (m *MockLedgerRepository) GetBalance(ctx context.Context, playerID shared.PlayerID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.balances[playerID.Value()]
	if !ok {
		return decimal.Zero, nil
	}
	return balance, nil
}

// SetBalance implements ledger.BalanceStore.
func (m *MockLedgerRepository) SetBalance(ctx context.Context, playerID shared.PlayerID, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[playerID.Value()] = balance
	return nil
}

// CommitTransaction implements ledger.BalanceStore.
func (m *MockLedgerRepository) CommitTransaction(ctx context.Context, txn *ledger.Transaction, newBalance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StorageErr != nil {
		return m.StorageErr
	}
	if m.TransientFailures > 0 {
		m.TransientFailures--
		return &ledger.ErrTransientStorage{Err: errTransientProbe}
	}

	m.balances[txn.PlayerID().Value()] = newBalance
	m.transactions = append(m.transactions, txn)
	return nil
}

// FindByID implements ledger.TransactionRepository.
func (m *MockLedgerRepository) FindByID(ctx context.Context, id ledger.TransactionID, playerID shared.PlayerID) (*ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, txn := range m.transactions {
		if txn.ID().Equals(id) && txn.PlayerID().Equals(playerID) {
			return txn, nil
		}
	}
	return nil, &ledger.ErrTransactionNotFound{ID: id.String(), PlayerID: playerID.String()}
}

// FindByPlayer implements ledger.TransactionRepository.
func (m *MockLedgerRepository) FindByPlayer(ctx context.Context, playerID shared.PlayerID, opts ledger.QueryOptions) ([]*ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches := m.filterByPlayer(playerID, opts)

	start := opts.Offset
	if start > len(matches) {
		start = len(matches)
	}
	end := len(matches)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	return matches[start:end], nil
}

// CountByPlayer implements ledger.TransactionRepository.
func (m *MockLedgerRepository) CountByPlayer(ctx context.Context, playerID shared.PlayerID, opts ledger.QueryOptions) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.filterByPlayer(playerID, opts)), nil
}

// AllTransactions returns every committed transaction, newest-last, for
// test assertions that need the raw log regardless of player.
func (m *MockLedgerRepository) AllTransactions() []*ledger.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*ledger.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out
}

func (m *MockLedgerRepository) filterByPlayer(playerID shared.PlayerID, opts ledger.QueryOptions) []*ledger.Transaction {
	var matches []*ledger.Transaction
	for _, txn := range m.transactions {
		if !txn.PlayerID().Equals(playerID) {
			continue
		}
		if opts.Direction != nil && txn.Direction() != *opts.Direction {
			continue
		}
		matches = append(matches, txn)
	}
	return matches
}
