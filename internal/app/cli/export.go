package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fatflowers/clubdesk/internal/app/service/export"
)

func newExportCommand() *cobra.Command {
	var (
		subscriptionID uint
		nearExpiry     bool
		days           int
		out            string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an xlsx export of a subscription ledger or of the near-expiry list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subscriptionID == 0 && !nearExpiry {
				return fmt.Errorf("either --subscription-id or --near-expiry is required")
			}
			var svc *export.Service
			return withServices(cmd.Context(), func(ctx context.Context) error {
				var (
					data []byte
					err  error
				)
				if nearExpiry {
					var window *int
					if cmd.Flags().Changed("days") {
						window = &days
					}
					data, err = svc.NearExpiryWorkbook(ctx, window)
				} else {
					data, err = svc.PaymentsWorkbook(ctx, subscriptionID)
				}
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
				return nil
			}, &svc)
		},
	}
	cmd.Flags().UintVar(&subscriptionID, "subscription-id", 0, "Subscription whose installments are exported")
	cmd.Flags().BoolVar(&nearExpiry, "near-expiry", false, "Export subscriptions near expiry instead")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "Near-expiry window in days")
	cmd.Flags().StringVarP(&out, "out", "o", "export.xlsx", "Output file")
	return cmd
}
