package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fatflowers/clubdesk/internal/app/service/reminder"
)

func newRemindCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Publish reminders for subscriptions about to expire",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := &reminder.DispatchRequest{}
			if cmd.Flags().Changed("days") {
				req.Days = &days
			}
			var svc *reminder.Service
			return withServices(cmd.Context(), func(ctx context.Context) error {
				res, err := svc.Dispatch(ctx, req)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}, &svc)
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 0, "Window in days (default: reminder.days_window)")
	return cmd
}
