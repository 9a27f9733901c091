package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/common"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/pricing"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
	"github.com/andrescamacho/vendor-pricing-engine/pkg/utils"
)

// maxHistoryPageSize bounds §6's GET /shop/history page size so a caller
// passing an unreasonable ?size= cannot force an unbounded table scan.
const maxHistoryPageSize = 200

// GetBalanceQuery requests a player's current balance (§6 GET
// /shop/balance/{playerId}).
type GetBalanceQuery struct {
	PlayerID string
}

// GetBalanceResponse is the §6 balance payload.
type GetBalanceResponse struct {
	PlayerID    string
	Balance     decimal.Decimal
	LastUpdated time.Time
}

// GetBalanceHandler handles GetBalanceQuery.
type GetBalanceHandler struct {
	ledger *ledger.Ledger
	clock  shared.Clock
}

// NewGetBalanceHandler creates a new balance query handler.
func NewGetBalanceHandler(led *ledger.Ledger, clock shared.Clock) *GetBalanceHandler {
	return &GetBalanceHandler{ledger: led, clock: clock}
}

// Handle executes the balance query.
func (h *GetBalanceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetBalanceQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}

	balance, err := h.ledger.Balance(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return &GetBalanceResponse{PlayerID: playerID.Value(), Balance: balance, LastUpdated: h.clock.Now()}, nil
}

// GetHistoryQuery requests a page of a player's transaction history (§6 GET
// /shop/history/{playerId}?page&size&type).
type GetHistoryQuery struct {
	PlayerID  string
	Page      int
	Size      int
	Direction *ledger.Direction
}

// GetHistoryResponse is a paged transaction list.
type GetHistoryResponse struct {
	Transactions []*ledger.Transaction
	Total        int
	Page         int
	Size         int
}

// GetHistoryHandler handles GetHistoryQuery.
type GetHistoryHandler struct {
	ledger *ledger.Ledger
}

// NewGetHistoryHandler creates a new history query handler.
func NewGetHistoryHandler(led *ledger.Ledger) *GetHistoryHandler {
	return &GetHistoryHandler{ledger: led}
}

// Handle executes the history query.
func (h *GetHistoryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.Size
	if size < 1 {
		size = ledger.DefaultQueryOptions().Limit
	}
	size = utils.Min(size, maxHistoryPageSize)

	opts := ledger.QueryOptions{
		Direction: query.Direction,
		Limit:     size,
		Offset:    (page - 1) * size,
		OrderBy:   "created_at DESC",
	}

	txns, total, err := h.ledger.History(ctx, playerID, opts)
	if err != nil {
		return nil, err
	}

	return &GetHistoryResponse{Transactions: txns, Total: total, Page: page, Size: size}, nil
}

// GetPriceQuery requests the current buy and sell quote for an item (§6 GET
// /shop/price/{itemId}).
type GetPriceQuery struct {
	ItemID string
}

// GetPriceResponse is the §6 price payload.
type GetPriceResponse struct {
	ItemID      string
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	LastUpdated time.Time
}

// GetPriceHandler handles GetPriceQuery.
type GetPriceHandler struct {
	catalog catalog.Repository
	cache   *pricing.Cache
}

// NewGetPriceHandler creates a new price query handler.
func NewGetPriceHandler(catalogRepo catalog.Repository, cache *pricing.Cache) *GetPriceHandler {
	return &GetPriceHandler{catalog: catalogRepo, cache: cache}
}

// Handle executes the price query.
func (h *GetPriceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetPriceQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if _, err := h.catalog.FindByID(ctx, query.ItemID); err != nil {
		return nil, err
	}

	buyQuote, err := h.cache.Get(query.ItemID, ledger.PlayerBuys)
	if err != nil {
		return nil, err
	}
	sellQuote, err := h.cache.Get(query.ItemID, ledger.PlayerSells)
	if err != nil {
		return nil, err
	}

	lastUpdated := buyQuote.TickTime
	if sellQuote.TickTime.After(lastUpdated) {
		lastUpdated = sellQuote.TickTime
	}

	return &GetPriceResponse{
		ItemID:      query.ItemID,
		BuyPrice:    buyQuote.Price,
		SellPrice:   sellQuote.Price,
		LastUpdated: lastUpdated,
	}, nil
}

// ListItemsQuery requests the catalog listing, optionally filtered by
// category (§6 GET /shop/items?category=).
type ListItemsQuery struct {
	Category *catalog.Category
}

// ListItemsResponse is the §6 catalog listing payload.
type ListItemsResponse struct {
	Items []*catalog.Item
}

// ListItemsHandler handles ListItemsQuery.
type ListItemsHandler struct {
	catalog catalog.Repository
}

// NewListItemsHandler creates a new items-listing handler.
func NewListItemsHandler(catalogRepo catalog.Repository) *ListItemsHandler {
	return &ListItemsHandler{catalog: catalogRepo}
}

// Handle executes the catalog listing query.
func (h *ListItemsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListItemsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	items, err := h.catalog.List(ctx, query.Category)
	if err != nil {
		return nil, err
	}

	return &ListItemsResponse{Items: items}, nil
}

// GetItemQuery requests item detail (§6 GET /shop/items/{itemId}).
type GetItemQuery struct {
	ItemID string
}

// GetItemResponse wraps a single item.
type GetItemResponse struct {
	Item *catalog.Item
}

// GetItemHandler handles GetItemQuery.
type GetItemHandler struct {
	catalog catalog.Repository
}

// NewGetItemHandler creates a new item-detail handler.
func NewGetItemHandler(catalogRepo catalog.Repository) *GetItemHandler {
	return &GetItemHandler{catalog: catalogRepo}
}

// Handle executes the item-detail query.
func (h *GetItemHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetItemQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	item, err := h.catalog.FindByID(ctx, query.ItemID)
	if err != nil {
		return nil, err
	}

	return &GetItemResponse{Item: item}, nil
}
