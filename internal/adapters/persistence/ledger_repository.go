package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// transientStoragePatterns lists substrings of driver error messages that
// indicate the commit attempt never reached a durable state: sqlite's
// busy/locked conditions under contention, and the connection/serialization
// failures postgres surfaces under load. Anything else is treated as
// permanent so a malformed row doesn't get silently retried.
var transientStoragePatterns = []string{
	"database is locked",
	"sqlite_busy",
	"deadlock",
	"serialization failure",
	"connection reset",
	"connection refused",
	"broken pipe",
	"too many connections",
}

func wrapIfTransient(err error) error {
	if err == nil {
		return nil
	}
	lower := strings.ToLower(err.Error())
	for _, pattern := range transientStoragePatterns {
		if strings.Contains(lower, pattern) {
			return &ledger.ErrTransientStorage{Err: err}
		}
	}
	return err
}

// GormLedgerRepository implements ledger.BalanceStore and
// ledger.TransactionRepository over a single GORM connection, so
// CommitTransaction can land the balance update and the transaction row in
// one database transaction (§4.4's "one durable operation").
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GORM-backed ledger repository.
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// GetBalance returns the player's current balance, defaulting to zero for
// a player that has never transacted.
func (r *GormLedgerRepository) GetBalance(ctx context.Context, playerID shared.PlayerID) (decimal.Decimal, error) {
	var model BalanceModel
	result := r.db.WithContext(ctx).Where("player_id = ?", playerID.Value()).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", result.Error)
	}

	balance, err := decimal.NewFromString(model.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance in database: %w", err)
	}
	return balance, nil
}

// SetBalance overwrites a player's balance directly (the admin path, §6's
// PUT /shop/admin/balance). It does not append a transaction row.
func (r *GormLedgerRepository) SetBalance(ctx context.Context, playerID shared.PlayerID, balance decimal.Decimal) error {
	model := &BalanceModel{
		PlayerID:  playerID.Value(),
		Balance:   balance.StringFixed(2),
		UpdatedAt: time.Now().UTC(),
	}
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to set balance: %w", result.Error)
	}
	return nil
}

// CommitTransaction persists newBalance and txn atomically: both rows land
// in the same database transaction, or neither does (§4.4, §7
// StorageError). A failure recognized as transient is wrapped in
// ledger.ErrTransientStorage so the caller can retry it.
func (r *GormLedgerRepository) CommitTransaction(ctx context.Context, txn *ledger.Transaction, newBalance decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balanceModel := &BalanceModel{
			PlayerID:  txn.PlayerID().Value(),
			Balance:   newBalance.StringFixed(2),
			UpdatedAt: txn.CreatedAt(),
		}
		if result := tx.Save(balanceModel); result.Error != nil {
			return wrapIfTransient(fmt.Errorf("failed to persist balance: %w", result.Error))
		}

		txnModel := transactionToModel(txn)
		if result := tx.Create(txnModel); result.Error != nil {
			return wrapIfTransient(fmt.Errorf("failed to persist transaction: %w", result.Error))
		}

		return nil
	})
}

// FindByID retrieves a transaction by its ID.
func (r *GormLedgerRepository) FindByID(ctx context.Context, id ledger.TransactionID, playerID shared.PlayerID) (*ledger.Transaction, error) {
	var model TransactionModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND player_id = ?", id.String(), playerID.Value()).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, &ledger.ErrTransactionNotFound{ID: id.String(), PlayerID: playerID.String()}
		}
		return nil, fmt.Errorf("failed to find transaction: %w", result.Error)
	}
	return modelToTransaction(&model)
}

// FindByPlayer retrieves transactions for a player with optional filtering.
func (r *GormLedgerRepository) FindByPlayer(ctx context.Context, playerID shared.PlayerID, opts ledger.QueryOptions) ([]*ledger.Transaction, error) {
	query := applyTransactionFilters(r.db.WithContext(ctx).Where("player_id = ?", playerID.Value()), opts)

	orderBy := "created_at DESC"
	if opts.OrderBy != "" {
		orderBy = opts.OrderBy
	}
	query = query.Order(orderBy)

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []TransactionModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", result.Error)
	}

	txns := make([]*ledger.Transaction, 0, len(models))
	for i := range models {
		txn, err := modelToTransaction(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert transaction model: %w", err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// CountByPlayer returns the count of transactions matching the criteria.
func (r *GormLedgerRepository) CountByPlayer(ctx context.Context, playerID shared.PlayerID, opts ledger.QueryOptions) (int, error) {
	query := applyTransactionFilters(
		r.db.WithContext(ctx).Model(&TransactionModel{}).Where("player_id = ?", playerID.Value()),
		opts,
	)

	var count int64
	if result := query.Count(&count); result.Error != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", result.Error)
	}
	return int(count), nil
}

func applyTransactionFilters(query *gorm.DB, opts ledger.QueryOptions) *gorm.DB {
	if opts.StartDate != nil {
		query = query.Where("created_at >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		query = query.Where("created_at <= ?", *opts.EndDate)
	}
	if opts.Direction != nil {
		query = query.Where("direction = ?", opts.Direction.String())
	}
	return query
}

func modelToTransaction(model *TransactionModel) (*ledger.Transaction, error) {
	id, err := ledger.NewTransactionIDFromString(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id in database: %w", err)
	}
	playerID, err := shared.NewPlayerID(model.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player id in database: %w", err)
	}
	direction, err := ledger.ParseDirection(model.Direction)
	if err != nil {
		return nil, fmt.Errorf("invalid direction in database: %w", err)
	}
	unitPrice, err := decimal.NewFromString(model.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price in database: %w", err)
	}
	total, err := decimal.NewFromString(model.Total)
	if err != nil {
		return nil, fmt.Errorf("invalid total in database: %w", err)
	}
	demand, err := decimal.NewFromString(model.DemandPressure)
	if err != nil {
		return nil, fmt.Errorf("invalid demand_pressure in database: %w", err)
	}
	supply, err := decimal.NewFromString(model.SupplyPressure)
	if err != nil {
		return nil, fmt.Errorf("invalid supply_pressure in database: %w", err)
	}

	return ledger.ReconstructTransaction(
		id, playerID, model.PlayerName, model.ItemID, direction, model.Quantity,
		unitPrice, total,
		ledger.PressureSnapshot{Demand: demand, Supply: supply, OnlineAtTrade: model.OnlineAtTrade},
		model.CreatedAt,
	), nil
}

func transactionToModel(txn *ledger.Transaction) *TransactionModel {
	pressure := txn.Pressure()
	return &TransactionModel{
		ID:             txn.ID().String(),
		PlayerID:       txn.PlayerID().Value(),
		PlayerName:     txn.PlayerName(),
		ItemID:         txn.ItemID(),
		Direction:      txn.Direction().String(),
		Quantity:       txn.Quantity(),
		UnitPrice:      txn.UnitPrice().StringFixed(2),
		Total:          txn.Total().StringFixed(2),
		DemandPressure: pressure.Demand.StringFixed(3),
		SupplyPressure: pressure.Supply.StringFixed(3),
		OnlineAtTrade:  pressure.OnlineAtTrade,
		CreatedAt:      txn.CreatedAt(),
	}
}
