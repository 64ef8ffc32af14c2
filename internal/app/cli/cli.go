// Package cli implements the clubctl administrative commands on top of the fx service graph.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/fatflowers/clubdesk/internal/app"
	"github.com/fatflowers/clubdesk/pkg/config"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "clubctl",
		Short:        "Clubdesk administration tool",
		Long:         `clubctl runs database migrations, dispatches expiry reminders and exports ledgers outside the HTTP API.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCommand(),
		newRemindCommand(),
		newExportCommand(),
	)
	return root
}

// withServices builds the service graph, fills targets and runs fn. The reminder ticker and
// HTTP server are never started from the CLI.
func withServices(ctx context.Context, fn func(context.Context) error, targets ...interface{}) error {
	a := fx.New(
		app.Services,
		fx.Decorate(func(c *config.Config) *config.Config {
			c.Reminder.Interval = 0
			return c
		}),
		fx.NopLogger,
		fx.Populate(targets...),
	)
	if err := a.Err(); err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, app.DefaultStartTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start services: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
		defer cancel()
		_ = a.Stop(stopCtx)
	}()
	return fn(ctx)
}
