package reminder

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/clubdesk/pkg/config"
)

var Module = fx.Options(
	fx.Provide(NewService, NewPublisher),
	fx.Invoke(startTicker),
)

// startTicker runs Dispatch in the background when reminder.interval is set.
func startTicker(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger, s *Service) {
	if cfg.Reminder.Interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Infow("reminder ticker started", "interval", cfg.Reminder.Interval.String())
			go s.Run(ctx, cfg.Reminder.Interval)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
