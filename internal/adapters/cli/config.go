package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/vendor-pricing-engine/internal/infrastructure/config"
)

// NewConfigCommand creates the config command: show/set-default operations
// against a ~/.vendor-pricing-engine/config.json preference file, separate
// from process bootstrap configuration.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shopctl's saved operator preferences",
		Long: `Manage shopctl's saved preferences (default player, default server).

These are stored in ~/.vendor-pricing-engine/config.json and are distinct
from the engine's own process bootstrap configuration.

Examples:
  shopctl config show
  shopctl config set-default-player p1
  shopctl config set-default-server http://localhost:8080`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetDefaultPlayerCommand())
	cmd.AddCommand(newConfigSetDefaultServerCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show saved operator preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			cfg, err := handler.Load()
			if err != nil {
				return err
			}

			fmt.Println("shopctl preferences")
			fmt.Println("====================")
			fmt.Printf("Config file:     %s\n", handler.GetConfigPath())
			fmt.Printf("Default player:  %s\n", cfg.DefaultPlayerID)
			fmt.Printf("Default server:  %s\n", cfg.DefaultServerAddr)
			return nil
		},
	}
}

func newConfigSetDefaultPlayerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default-player <playerId>",
		Short: "Set the default --player-id for buy/sell/balance/history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			return handler.SetDefaultPlayer(args[0])
		},
	}
}

func newConfigSetDefaultServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default-server <url>",
		Short: "Set the default --server control plane address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			return handler.SetDefaultServerAddr(args[0])
		},
	}
}
