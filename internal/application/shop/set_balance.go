package shop

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/common"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// SetBalanceCommand is the admin override path (§6 PUT
// /shop/admin/balance). It bypasses the transaction log entirely.
type SetBalanceCommand struct {
	PlayerID   string
	NewBalance decimal.Decimal
}

// SetBalanceResponse confirms the admin balance override.
type SetBalanceResponse struct {
	PlayerID string
	Balance  decimal.Decimal
}

// SetBalanceHandler handles SetBalanceCommand.
type SetBalanceHandler struct {
	ledger *ledger.Ledger
}

// NewSetBalanceHandler creates a new admin balance handler.
func NewSetBalanceHandler(led *ledger.Ledger) *SetBalanceHandler {
	return &SetBalanceHandler{ledger: led}
}

// Handle executes the admin balance override, still under the player's
// lock so it cannot race a concurrent trade.
func (h *SetBalanceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetBalanceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}
	if cmd.NewBalance.IsNegative() {
		return nil, shared.NewValidationError("newBalance", "newBalance must not be negative")
	}

	unlock := h.ledger.Lock(playerID)
	defer unlock()

	if err := h.ledger.SetBalance(ctx, playerID, cmd.NewBalance); err != nil {
		return nil, err
	}

	return &SetBalanceResponse{PlayerID: playerID.Value(), Balance: cmd.NewBalance}, nil
}
