package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewAdminCommand creates the admin command group: operator-only writes
// against the catalog, settings, and balance override paths (§6's "admin
// tooling" consumer, §3's "items are created by an admin path").
func NewAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations on the catalog, settings, and balances",
		Long: `Administrative operations: catalog creation/deactivation, settings
overrides, and direct balance writes.

Examples:
  shopctl admin set-balance --player-id p1 --balance 500.00
  shopctl admin add-item --id bread --name Bread --category FOOD_CORE \
    --base-sell 2.50 --base-buy 1.00 --min-price 0.50 --max-price 10.00
  shopctl admin deactivate-item bread
  shopctl admin settings get max_price_change
  shopctl admin settings set max_price_change 0.15`,
	}

	cmd.AddCommand(newAdminSetBalanceCommand())
	cmd.AddCommand(newAdminAddItemCommand())
	cmd.AddCommand(newAdminDeactivateItemCommand())
	cmd.AddCommand(newAdminSettingsCommand())

	return cmd
}

func newAdminSetBalanceCommand() *cobra.Command {
	var (
		playerID string
		balance  string
	)

	cmd := &cobra.Command{
		Use:   "set-balance",
		Short: "Overwrite a player's balance directly",
		Long: `Overwrite a player's balance directly, bypassing the transaction log
(§6 PUT /shop/admin/balance).

Example:
  shopctl admin set-balance --player-id p1 --balance 500.00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			result, err := newClient().AdminSetBalance(ctx, playerID, balance)
			if err != nil {
				return err
			}
			fmt.Printf("%s balance set to %s\n", result.PlayerID, result.Balance)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player-id", "", "Player ID [required]")
	cmd.Flags().StringVar(&balance, "balance", "", "New balance [required]")
	cmd.MarkFlagRequired("player-id")
	cmd.MarkFlagRequired("balance")

	return cmd
}

func newAdminAddItemCommand() *cobra.Command {
	var (
		id, name, category, complexity string
		hunger                         int
		saturation                     float64
		baseSell, baseBuy              string
		minPrice, maxPrice             string
	)

	cmd := &cobra.Command{
		Use:   "add-item",
		Short: "Create a new catalog item",
		Long: `Create a new catalog item (§3's admin creation path).

Example:
  shopctl admin add-item --id bread --name Bread --category FOOD_CORE \
    --base-sell 2.50 --base-buy 1.00 --min-price 0.50 --max-price 10.00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			item := map[string]interface{}{
				"id": id, "name": name, "category": category, "complexityClass": complexity,
				"nutritionHunger": hunger, "saturation": saturation,
				"baseSellPrice": baseSell, "baseBuyPrice": baseBuy,
				"minPrice": minPrice, "maxPrice": maxPrice,
			}

			result, err := newClient().AdminAddItem(ctx, item)
			if err != nil {
				return err
			}
			fmt.Printf("created %s (%s): sell %s / buy %s\n", result.ID, result.Name, result.BaseSellPrice, result.BaseBuyPrice)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Item ID [required]")
	cmd.Flags().StringVar(&name, "name", "", "Item name [required]")
	cmd.Flags().StringVar(&category, "category", "", "Category [required]")
	cmd.Flags().StringVar(&complexity, "complexity", "", "Complexity class")
	cmd.Flags().IntVar(&hunger, "nutrition-hunger", 0, "Hunger restored")
	cmd.Flags().Float64Var(&saturation, "saturation", 0, "Saturation restored")
	cmd.Flags().StringVar(&baseSell, "base-sell", "", "Base sell price [required]")
	cmd.Flags().StringVar(&baseBuy, "base-buy", "", "Base buy price [required]")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "Minimum price [required]")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "Maximum price [required]")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("base-sell")
	cmd.MarkFlagRequired("base-buy")
	cmd.MarkFlagRequired("min-price")
	cmd.MarkFlagRequired("max-price")

	return cmd
}

func newAdminDeactivateItemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate-item <itemId>",
		Short: "Soft-delete a catalog item",
		Long: `Soft-delete a catalog item: it stops being tradable but remains
resolvable in price history (§4.2).

Example:
  shopctl admin deactivate-item bread`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			result, err := newClient().AdminDeactivateItem(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s deactivated (active=%t)\n", result.ID, result.Active)
			return nil
		},
	}

	return cmd
}

func newAdminSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or write the §4.1 named settings store",
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Read a setting's current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			result, err := newClient().AdminGetSetting(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", result.Key, result.Value)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a setting's value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			result, err := newClient().AdminSetSetting(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", result.Key, result.Value)
			return nil
		},
	}

	cmd.AddCommand(getCmd)
	cmd.AddCommand(setCmd)
	return cmd
}
