package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewHealthCommand creates the health command.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the control plane's liveness",
		Long:  `Verify that the control plane at --server is running and responsive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			result, err := newClient().Health(ctx)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			fmt.Printf("control plane is %s\n", result.Status)
			return nil
		},
	}
}
