package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
	"github.com/andrescamacho/vendor-pricing-engine/pkg/money"
)

// PressureSnapshot captures the accumulator's read (without draining it) at
// the instant a transaction is appended, plus the online-player count at
// that instant. It is denormalized onto the transaction row so a later
// audit of the price history can be correlated without replaying ticks.
type PressureSnapshot struct {
	Demand        decimal.Decimal
	Supply        decimal.Decimal
	OnlineAtTrade int
}

// Transaction is the aggregate root representing one append-only trade
// between a player and the vendor. Transactions are immutable once created.
type Transaction struct {
	id         TransactionID
	playerID   shared.PlayerID
	playerName string
	itemID     string
	direction  Direction
	quantity   int
	unitPrice  decimal.Decimal
	total      decimal.Decimal
	pressure   PressureSnapshot
	createdAt  time.Time
}

const (
	minQuantity = 1
	maxQuantity = 10000
)

// NewTransaction creates a new transaction with validation.
func NewTransaction(
	playerID shared.PlayerID,
	playerName string,
	itemID string,
	direction Direction,
	quantity int,
	unitPrice decimal.Decimal,
	pressure PressureSnapshot,
	createdAt time.Time,
) (*Transaction, error) {
	t := &Transaction{
		id:         NewTransactionID(),
		playerID:   playerID,
		playerName: playerName,
		itemID:     itemID,
		direction:  direction,
		quantity:   quantity,
		unitPrice:  unitPrice,
		total:      money.RoundAmount(unitPrice.Mul(decimal.NewFromInt(int64(quantity)))),
		pressure:   pressure,
		createdAt:  createdAt,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// ReconstructTransaction reconstructs a transaction from persistence. This
// bypasses the future-timestamp check, since persisted rows are by
// definition already in the past.
func ReconstructTransaction(
	id TransactionID,
	playerID shared.PlayerID,
	playerName string,
	itemID string,
	direction Direction,
	quantity int,
	unitPrice decimal.Decimal,
	total decimal.Decimal,
	pressure PressureSnapshot,
	createdAt time.Time,
) *Transaction {
	return &Transaction{
		id:         id,
		playerID:   playerID,
		playerName: playerName,
		itemID:     itemID,
		direction:  direction,
		quantity:   quantity,
		unitPrice:  unitPrice,
		total:      total,
		pressure:   pressure,
		createdAt:  createdAt,
	}
}

// Validate checks that the transaction satisfies every invariant in §3/§4.7:
// quantity bounds, a positive unit price, and the cent-tolerant total check.
func (t *Transaction) Validate() error {
	if t.playerID.IsZero() {
		return &ErrInvalidTransaction{Field: "player_id", Reason: "player_id must not be empty"}
	}
	if !t.direction.IsValid() {
		return &ErrInvalidTransaction{Field: "direction", Reason: fmt.Sprintf("invalid direction: %s", t.direction)}
	}
	if t.quantity < minQuantity || t.quantity > maxQuantity {
		return &ErrInvalidTransaction{Field: "quantity", Reason: fmt.Sprintf("quantity must be in [%d, %d], got %d", minQuantity, maxQuantity, t.quantity)}
	}
	if !t.unitPrice.IsPositive() {
		return &ErrInvalidTransaction{Field: "unit_price", Reason: "unit_price must be > 0"}
	}

	expected := t.unitPrice.Mul(decimal.NewFromInt(int64(t.quantity)))
	tolerance := decimal.NewFromFloat(0.01)
	if t.total.Sub(expected).Abs().GreaterThan(tolerance) {
		return &ErrBalanceInvariantViolation{
			BalanceBefore: expected,
			Amount:        t.total,
			BalanceAfter:  expected,
			Expected:      expected,
		}
	}

	now := time.Now().Add(1 * time.Minute)
	if t.createdAt.After(now) {
		return &ErrInvalidTransaction{Field: "created_at", Reason: fmt.Sprintf("created_at cannot be in the future: %s", t.createdAt)}
	}

	return nil
}

// Getters (all fields are immutable).

func (t *Transaction) ID() TransactionID          { return t.id }
func (t *Transaction) PlayerID() shared.PlayerID  { return t.playerID }
func (t *Transaction) PlayerName() string         { return t.playerName }
func (t *Transaction) ItemID() string             { return t.itemID }
func (t *Transaction) Direction() Direction       { return t.direction }
func (t *Transaction) Quantity() int              { return t.quantity }
func (t *Transaction) UnitPrice() decimal.Decimal { return t.unitPrice }
func (t *Transaction) Total() decimal.Decimal     { return t.total }
func (t *Transaction) Pressure() PressureSnapshot { return t.pressure }
func (t *Transaction) CreatedAt() time.Time       { return t.createdAt }

// IsBuy returns true when the player acquired the item from the vendor.
func (t *Transaction) IsBuy() bool {
	return t.direction == PlayerBuys
}

// IsSell returns true when the player offloaded the item to the vendor.
func (t *Transaction) IsSell() bool {
	return t.direction == PlayerSells
}

// BalanceDelta returns the signed change the transaction applies to the
// player's balance: negative for a buy, positive for a sell.
func (t *Transaction) BalanceDelta() decimal.Decimal {
	if t.IsBuy() {
		return t.total.Neg()
	}
	return t.total
}

// String provides a human-readable representation.
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction[%s, item=%s, direction=%s, qty=%d, total=%s]",
		t.id.String(), t.itemID, t.direction, t.quantity, t.total.String())
}
