package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// NewBalanceCommand creates the balance subcommand (§6 GET
// /shop/balance/{playerId}).
func NewBalanceCommand() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show a player's current balance",
		Long: `Show a player's current balance (§6 GET /shop/balance/{playerId}).

Example:
  shopctl balance --player-id p1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				playerID = defaultPlayerID()
			}
			if playerID == "" {
				return fmt.Errorf("--player-id is required (or set a default with 'shopctl config set-default-player')")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			result, err := newClient().Balance(ctx, playerID)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s (as of %s)\n", result.PlayerID, result.Balance, result.LastUpdated.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player-id", "", "Player ID")
	return cmd
}

// NewHistoryCommand creates the history subcommand (§6 GET
// /shop/history/{playerId}).
func NewHistoryCommand() *cobra.Command {
	var (
		playerID  string
		page      int
		size      int
		direction string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a player's transaction history",
		Long: `List a page of a player's transaction history (§6 GET
/shop/history/{playerId}?page&size&type).

Example:
  shopctl history --player-id p1 --page 1 --size 20 --type buy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				playerID = defaultPlayerID()
			}
			if playerID == "" {
				return fmt.Errorf("--player-id is required (or set a default with 'shopctl config set-default-player')")
			}

			apiDirection := ""
			switch direction {
			case "buy":
				apiDirection = "PLAYER_BUYS"
			case "sell":
				apiDirection = "PLAYER_SELLS"
			case "":
			default:
				return fmt.Errorf("--type must be buy or sell")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			result, err := newClient().History(ctx, playerID, page, size, apiDirection)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tDIRECTION\tITEM\tQTY\tUNIT\tTOTAL")
			for _, t := range result.Transactions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					t.CreatedAt.Format(time.RFC3339), t.Direction, t.ItemID, t.Quantity, t.UnitPrice, t.Total)
			}
			w.Flush()
			fmt.Printf("page %d of size %d, %d total\n", result.Page, result.Size, result.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player-id", "", "Player ID")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", 50, "Page size")
	cmd.Flags().StringVar(&direction, "type", "", "Filter by direction (buy/sell)")
	return cmd
}

// NewItemsCommand creates the items subcommand (§6 GET /shop/items).
func NewItemsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List catalog items",
		Long: `List the item catalog, optionally filtered by category (§6 GET
/shop/items?category=).

Example:
  shopctl items --category FOOD_CORE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			items, err := newClient().Items(ctx, category)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tBASE SELL\tBASE BUY\tACTIVE")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
					item.ID, item.Name, item.Category, item.BaseSellPrice, item.BaseBuyPrice, item.Active)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	return cmd
}

// NewPriceCommand creates the price subcommand (§6 GET
// /shop/price/{itemId}).
func NewPriceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price <itemId>",
		Short: "Show an item's current buy and sell quote",
		Long: `Show an item's current buy and sell quote (§6 GET /shop/price/{itemId}).

Example:
  shopctl price bread`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			result, err := newClient().Price(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: buy %s / sell %s (as of %s)\n",
				result.ItemID, result.BuyPrice, result.SellPrice, result.LastUpdated.Format(time.RFC3339))
			return nil
		},
	}

	return cmd
}
