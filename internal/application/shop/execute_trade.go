package shop

import (
	"context"
	"fmt"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/common"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// ExecuteTradeCommand requests a single buy or sell against the vendor for
// one player (§4.7).
type ExecuteTradeCommand struct {
	PlayerID   string
	PlayerName string
	ItemID     string
	Quantity   int
	Direction  ledger.Direction
}

// ExecuteTradeResponse wraps the outcome of a single trade.
type ExecuteTradeResponse struct {
	Result *TradeResult
}

// ExecuteTradeHandler handles ExecuteTradeCommand by delegating to the
// shared Executor.
type ExecuteTradeHandler struct {
	executor *Executor
}

// NewExecuteTradeHandler creates a new trade handler.
func NewExecuteTradeHandler(executor *Executor) *ExecuteTradeHandler {
	return &ExecuteTradeHandler{executor: executor}
}

// Handle executes the trade command.
func (h *ExecuteTradeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExecuteTradeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}
	if !cmd.Direction.IsValid() {
		return nil, shared.NewValidationError("direction", fmt.Sprintf("invalid direction: %s", cmd.Direction))
	}

	result, err := h.executor.Execute(ctx, playerID, cmd.PlayerName, cmd.ItemID, cmd.Quantity, cmd.Direction)
	if err != nil {
		return nil, err
	}

	return &ExecuteTradeResponse{Result: result}, nil
}
