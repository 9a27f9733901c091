package http

import "github.com/shopspring/decimal"

// tradeRequest is the §6 body for POST /shop/buy and /shop/sell.
type tradeRequest struct {
	PlayerID   string `json:"playerId" validate:"required,max=36"`
	PlayerName string `json:"playerName"`
	ItemID     string `json:"itemId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1,max=10000"`
}

// batchRequest is the §6 body for POST /shop/batch.
type batchRequest struct {
	PlayerID     string                `json:"playerId" validate:"required,max=36"`
	PlayerName   string                `json:"playerName"`
	Transactions []batchOperationEntry `json:"transactions" validate:"required,max=50,dive"`
}

type batchOperationEntry struct {
	ItemID    string `json:"itemId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=10000"`
	Direction string `json:"direction" validate:"required,oneof=PLAYER_BUYS PLAYER_SELLS"`
}

// adminSetBalanceRequest is the §6 body for PUT /shop/admin/balance.
type adminSetBalanceRequest struct {
	PlayerID   string          `json:"playerId" validate:"required,max=36"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

// adminAddItemRequest is the body for POST /shop/admin/items, the §3
// "items are created by an admin path" lifecycle note.
type adminAddItemRequest struct {
	ID              string  `json:"id" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	Category        string  `json:"category" validate:"required"`
	ComplexityClass string  `json:"complexityClass"`
	NutritionHunger int     `json:"nutritionHunger"`
	Saturation      float64 `json:"saturation"`
	BaseSellPrice   decimal.Decimal `json:"baseSellPrice" validate:"required"`
	BaseBuyPrice    decimal.Decimal `json:"baseBuyPrice" validate:"required"`
	MinPrice        decimal.Decimal `json:"minPrice" validate:"required"`
	MaxPrice        decimal.Decimal `json:"maxPrice" validate:"required"`
}

// adminSetSettingRequest is the body for PUT /shop/admin/settings/{key}.
type adminSetSettingRequest struct {
	Value string `json:"value" validate:"required"`
}
