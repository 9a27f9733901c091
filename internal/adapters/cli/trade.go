package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/vendor-pricing-engine/internal/infrastructure/config"
)

// defaultPlayerID resolves --player-id's fallback from the operator's saved
// preference.
func defaultPlayerID() string {
	if handler, err := config.NewUserConfigHandler(); err == nil {
		if cfg, err := handler.Load(); err == nil {
			return cfg.DefaultPlayerID
		}
	}
	return ""
}

// NewBuyCommand creates the buy subcommand (§6 POST /shop/buy).
func NewBuyCommand() *cobra.Command {
	var (
		playerID   string
		playerName string
		itemID     string
		quantity   int
	)

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Buy an item from the vendor",
		Long: `Buy quantity units of itemId for playerId at the vendor's current buy
quote (§6 POST /shop/buy).

Example:
  shopctl buy --player-id p1 --item bread --quantity 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				playerID = defaultPlayerID()
			}
			if playerID == "" {
				return fmt.Errorf("--player-id is required (or set a default with 'shopctl config set-default-player')")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			result, err := newClient().Buy(ctx, playerID, playerName, itemID, quantity)
			if err != nil {
				return err
			}
			printTradeResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player-id", "", "Player ID")
	cmd.Flags().StringVar(&playerName, "player-name", "", "Player display name")
	cmd.Flags().StringVar(&itemID, "item", "", "Item ID [required]")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Quantity")
	cmd.MarkFlagRequired("item")

	return cmd
}

// NewSellCommand creates the sell subcommand (§6 POST /shop/sell).
func NewSellCommand() *cobra.Command {
	var (
		playerID   string
		playerName string
		itemID     string
		quantity   int
	)

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Sell an item to the vendor",
		Long: `Sell quantity units of itemId from playerId at the vendor's current sell
quote (§6 POST /shop/sell).

Example:
  shopctl sell --player-id p1 --item bread --quantity 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				playerID = defaultPlayerID()
			}
			if playerID == "" {
				return fmt.Errorf("--player-id is required (or set a default with 'shopctl config set-default-player')")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			result, err := newClient().Sell(ctx, playerID, playerName, itemID, quantity)
			if err != nil {
				return err
			}
			printTradeResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player-id", "", "Player ID")
	cmd.Flags().StringVar(&playerName, "player-name", "", "Player display name")
	cmd.Flags().StringVar(&itemID, "item", "", "Item ID [required]")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Quantity")
	cmd.MarkFlagRequired("item")

	return cmd
}

func printTradeResult(r *TradeResultDTO) {
	fmt.Printf("Transaction %s: %s %d x %s @ %s = %s (new balance %s)\n",
		r.TransactionID, r.Direction, r.Quantity, r.ItemID, r.UnitPrice, r.Total, r.NewBalance)
}
