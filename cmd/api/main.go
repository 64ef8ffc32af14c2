package main

// @title           Clubdesk Backend API
// @version         1.0
// @description     Subscription, pack membership and payment ledger API for sports clubs.

// @host      localhost:8888
// @BasePath  /

// @securityDefinitions.apikey  OperatorToken
// @in                          header
// @name                        Authorization

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/fatflowers/clubdesk/internal/app"
)

func main() {
	// SIGINT/SIGTERM are handled by fx
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	// A local .env is optional; real deployments set APP_* directly.
	_ = godotenv.Load()

	a := fx.New(
		app.Module,
		fx.WithLogger(func(l *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Desugar()}
		}),
	)
	startCtx, cancel := context.WithTimeout(context.Background(), app.DefaultStartTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		// Logging might not be ready; fallback to zap example
		zap.NewExample().Sugar().Errorf("failed to start app: %v", err)
		exitCode = 1
		return
	}

	sig := <-a.Done()
	zap.NewExample().Sugar().Infof("received %s, shutting down", sig)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
	defer stopCancel()
	if err := a.Stop(stopCtx); err != nil {
		zap.NewExample().Sugar().Errorf("failed to stop app: %v", err)
		exitCode = 1
		return
	}
}
