// Package persistence holds the GORM-backed adapters implementing the
// domain layer's repository ports, using struct-tag-driven models with
// explicit model<->domain conversion functions.
package persistence

import "time"

// ItemModel represents the catalog table (§3 Item, §6 monetary columns
// 10,2).
type ItemModel struct {
	ID              string  `gorm:"column:id;primaryKey;not null"`
	Name            string  `gorm:"column:name;not null"`
	Category        string  `gorm:"column:category;not null;index"`
	NutritionHunger int     `gorm:"column:nutrition_hunger;default:0"`
	Saturation      float64 `gorm:"column:saturation;default:0"`
	ComplexityClass string  `gorm:"column:complexity_class"`
	BaseSellPrice   string  `gorm:"column:base_sell_price;type:numeric(10,2);not null"`
	BaseBuyPrice    string  `gorm:"column:base_buy_price;type:numeric(10,2);not null"`
	MinPrice        string  `gorm:"column:min_price;type:numeric(10,2);not null"`
	MaxPrice        string  `gorm:"column:max_price;type:numeric(10,2);not null"`
	Active          bool    `gorm:"column:active;not null;default:true"`
}

func (ItemModel) TableName() string { return "items" }

// TransactionModel represents the append-only transactions table (§3, §6
// unique/foreign-key and index requirements).
type TransactionModel struct {
	ID         string    `gorm:"column:id;primaryKey;not null"`
	PlayerID   string    `gorm:"column:player_id;not null;index:idx_transactions_player_created"`
	PlayerName string    `gorm:"column:player_name;not null"`
	ItemID     string    `gorm:"column:item_id;not null;index:idx_transactions_item_created"`
	Item       *ItemModel `gorm:"foreignKey:ItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Direction  string    `gorm:"column:direction;not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
	UnitPrice  string    `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Total      string    `gorm:"column:total;type:numeric(10,2);not null"`

	DemandPressure   string `gorm:"column:demand_pressure;type:numeric(6,3);not null"`
	SupplyPressure   string `gorm:"column:supply_pressure;type:numeric(6,3);not null"`
	OnlineAtTrade    int    `gorm:"column:online_at_trade;not null"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_transactions_player_created;index:idx_transactions_item_created"`
}

func (TransactionModel) TableName() string { return "transactions" }

// BalanceModel is the per-player balance row the ledger's BalanceStore
// reads and writes under the per-player lock.
type BalanceModel struct {
	PlayerID  string    `gorm:"column:player_id;primaryKey;not null"`
	Balance   string    `gorm:"column:balance;type:numeric(10,2);not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (BalanceModel) TableName() string { return "balances" }

// PriceHistoryModel represents the price_history table (§3, §6 index on
// (item_id, timestamp desc)).
type PriceHistoryModel struct {
	ID                 uint       `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID             string     `gorm:"column:item_id;not null;index:idx_price_history_item_tick,priority:1"`
	Item               *ItemModel `gorm:"foreignKey:ItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TickTime           time.Time  `gorm:"column:tick_time;not null;index:idx_price_history_item_tick,priority:2,sort:desc"`
	PreviousPrice      string     `gorm:"column:previous_price;type:numeric(10,2);not null"`
	NewPrice           string     `gorm:"column:new_price;type:numeric(10,2);not null"`
	PercentChange      string     `gorm:"column:percent_change;type:numeric(6,3);not null"`
	DemandPressure     string     `gorm:"column:demand_pressure;type:numeric(6,3);not null"`
	SupplyPressure     string     `gorm:"column:supply_pressure;type:numeric(6,3);not null"`
	NetPressure        string     `gorm:"column:net_pressure;type:numeric(6,3);not null"`
	RawBuyVolume       int        `gorm:"column:raw_buy_volume;not null"`
	RawSellVolume      int        `gorm:"column:raw_sell_volume;not null"`
	WeightedBuyVolume  string     `gorm:"column:weighted_buy_volume;type:numeric(8,1);not null"`
	WeightedSellVolume string     `gorm:"column:weighted_sell_volume;type:numeric(8,1);not null"`
	OnlineCount        int        `gorm:"column:online_count;not null"`
	PlayerCorrection   string     `gorm:"column:player_correction;type:numeric(6,3);not null"`
}

func (PriceHistoryModel) TableName() string { return "price_history" }

// SettingModel represents the §3 ServerConfig named-scalar settings table.
type SettingModel struct {
	Key       string    `gorm:"column:key;primaryKey;not null"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (SettingModel) TableName() string { return "server_config" }

// SessionModel represents the player_sessions table. Session state is
// process-wide in-memory per §4.3/§5, but persisting it lets a restarted
// engine recover approximate online/offline state instead of starting
// every session cold.
type SessionModel struct {
	PlayerID     string    `gorm:"column:player_id;primaryKey;not null"`
	Name         string    `gorm:"column:name;not null"`
	LoginTime    time.Time `gorm:"column:login_time;not null"`
	LastActivity time.Time `gorm:"column:last_activity;not null"`
	IsOnline     bool      `gorm:"column:is_online;not null;default:false"`
}

func (SessionModel) TableName() string { return "player_sessions" }
