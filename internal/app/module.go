package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/clubdesk/internal/app/api/server"
	"github.com/fatflowers/clubdesk/internal/app/service/changelog"
	"github.com/fatflowers/clubdesk/internal/app/service/enrollment"
	"github.com/fatflowers/clubdesk/internal/app/service/export"
	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/internal/app/service/reminder"
	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	"github.com/fatflowers/clubdesk/internal/platform/db"
	"github.com/fatflowers/clubdesk/internal/platform/pubsub"
	"github.com/fatflowers/clubdesk/pkg/config"
	"github.com/fatflowers/clubdesk/pkg/logger"
	"github.com/fatflowers/clubdesk/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// Services wires every domain service without any HTTP surface. The CLI starts this alone.
var Services = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	db.Module,
	pubsub.Module,
	changelog.Module,
	ledger.Module,
	pack.Module,
	subscription.Module,
	enrollment.Module,
	reminder.Module,
	export.Module,
)

var Module = fx.Options(
	Services,
	server.Module,
)
