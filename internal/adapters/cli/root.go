package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/vendor-pricing-engine/internal/infrastructure/config"
)

var (
	// Global flags, pointed at an HTTP control plane rather than a daemon
	// socket.
	serverAddr string
	apiKey     string
)

// NewRootCommand creates the shopctl root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shopctl",
		Short: "shopctl operates and queries the vendor pricing engine",
		Long: `shopctl is the operator CLI for the vendor pricing engine's §6 HTTP
control plane.

"shopctl serve" boots the engine itself (HTTP control plane, metrics
server, and repricing scheduler). "shopctl config" edits the local
preference file only. Every other subcommand is a thin client against a
running engine's control plane.

Examples:
  shopctl serve --config ./config.yaml
  shopctl buy --player-id p1 --item bread --quantity 10
  shopctl sell --player-id p1 --item bread --quantity 5
  shopctl balance --player-id p1
  shopctl history --player-id p1 --page 1 --size 20
  shopctl price bread
  shopctl items --category FOOD_CORE
  shopctl admin set-balance --player-id p1 --balance 500.00`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServerAddr(),
		"Control plane base URL (e.g. http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("SHOP_API_KEY"),
		"Control plane X-API-Key (defaults to $SHOP_API_KEY)")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewBuyCommand())
	rootCmd.AddCommand(NewSellCommand())
	rootCmd.AddCommand(NewBatchCommand())
	rootCmd.AddCommand(NewBalanceCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewItemsCommand())
	rootCmd.AddCommand(NewPriceCommand())
	rootCmd.AddCommand(NewAdminCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// defaultServerAddr resolves the control-plane base URL a bare subcommand
// talks to, preferring the user's saved preference (internal/infrastructure/
// config.UserConfig) over the documented fallback.
func defaultServerAddr() string {
	if handler, err := config.NewUserConfigHandler(); err == nil {
		if cfg, err := handler.Load(); err == nil && cfg.DefaultServerAddr != "" {
			return cfg.DefaultServerAddr
		}
	}
	return "http://localhost:8080"
}

func newClient() *Client {
	return NewClient(serverAddr, apiKey)
}

// exitCode maps an error onto the documented CLI exit codes: 0 success, 1
// config error, 2 storage unavailable, 3 unrecoverable engine fault. A
// non-API error (e.g. the control plane was unreachable at all) is treated
// as a config error, since it almost always means --server points
// nowhere.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		return 1
	}

	switch apiErr.Status {
	case http.StatusServiceUnavailable:
		return 2
	case http.StatusInternalServerError:
		return 3
	default:
		return 1
	}
}

// Execute runs the root command and exits the process with the exit code
// exitCode derives from any error a subcommand returns.
func Execute() {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
