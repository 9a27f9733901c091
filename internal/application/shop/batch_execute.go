package shop

import (
	"context"
	"fmt"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/common"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// BatchOperation is one entry in a batch trade request.
type BatchOperation struct {
	ItemID    string
	Quantity  int
	Direction ledger.Direction
}

// BatchExecuteCommand requests up to maxBatchSize operations for one player,
// all under the same per-player lock (§4.7). The batch is not a database
// transaction: earlier successes persist even if a later entry fails.
type BatchExecuteCommand struct {
	PlayerID   string
	PlayerName string
	Operations []BatchOperation
}

// BatchEntryResult reports one operation's outcome within a batch.
type BatchEntryResult struct {
	Index  int
	Result *TradeResult
	Err    error
}

// BatchExecuteResponse is the per-entry results of a batch request.
type BatchExecuteResponse struct {
	Entries []BatchEntryResult
}

// BatchExecuteHandler handles BatchExecuteCommand.
type BatchExecuteHandler struct {
	executor *Executor
	ledger   *ledger.Ledger
}

// NewBatchExecuteHandler creates a new batch handler.
func NewBatchExecuteHandler(executor *Executor, led *ledger.Ledger) *BatchExecuteHandler {
	return &BatchExecuteHandler{executor: executor, ledger: led}
}

// Handle executes every operation in the batch under a single acquisition
// of the player's lock, reporting partial success per entry.
func (h *BatchExecuteHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*BatchExecuteCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if len(cmd.Operations) > maxBatchSize {
		return nil, shared.NewValidationError("transactions", fmt.Sprintf("batch size %d exceeds maximum of %d", len(cmd.Operations), maxBatchSize))
	}

	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}

	unlock := h.ledger.Lock(playerID)
	defer unlock()

	entries := make([]BatchEntryResult, 0, len(cmd.Operations))
	for i, op := range cmd.Operations {
		result, err := h.executor.executeLocked(ctx, playerID, cmd.PlayerName, op.ItemID, op.Quantity, op.Direction)
		entries = append(entries, BatchEntryResult{Index: i, Result: result, Err: err})
	}

	return &BatchExecuteResponse{Entries: entries}, nil
}
