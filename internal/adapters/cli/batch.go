package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewBatchCommand creates the batch subcommand (§6 POST /shop/batch).
func NewBatchCommand() *cobra.Command {
	var (
		playerID   string
		playerName string
		ops        []string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Execute up to 50 buy/sell operations for one player",
		Long: `Execute a batch of operations for one player under a single lock
acquisition (§6 POST /shop/batch). Each --op is "itemId:quantity:direction"
where direction is "buy" or "sell". A later entry's failure does not undo
an earlier entry's success.

Example:
  shopctl batch --player-id p1 --op bread:10:buy --op milk:3:sell`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				playerID = defaultPlayerID()
			}
			if playerID == "" {
				return fmt.Errorf("--player-id is required (or set a default with 'shopctl config set-default-player')")
			}

			entries, err := parseBatchOps(ops)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			results, err := newClient().Batch(ctx, playerID, playerName, entries)
			if err != nil {
				return err
			}

			for _, e := range results {
				if e.Error != "" {
					fmt.Printf("[%d] FAILED: %s\n", e.Index, e.Error)
					continue
				}
				fmt.Printf("[%d] ", e.Index)
				printTradeResult(e.Result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player-id", "", "Player ID")
	cmd.Flags().StringVar(&playerName, "player-name", "", "Player display name")
	cmd.Flags().StringArrayVar(&ops, "op", nil, `Operation "itemId:quantity:direction", repeatable`)
	cmd.MarkFlagRequired("op")

	return cmd
}

func parseBatchOps(raw []string) ([]BatchEntry, error) {
	entries := make([]BatchEntry, 0, len(raw))
	for _, s := range raw {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --op %q, expected itemId:quantity:direction", s)
		}

		quantity, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in --op %q: %w", s, err)
		}

		var direction string
		switch strings.ToLower(parts[2]) {
		case "buy":
			direction = "PLAYER_BUYS"
		case "sell":
			direction = "PLAYER_SELLS"
		default:
			return nil, fmt.Errorf("invalid direction in --op %q, expected buy or sell", s)
		}

		entries = append(entries, BatchEntry{ItemID: parts[0], Quantity: quantity, Direction: direction})
	}
	return entries, nil
}
