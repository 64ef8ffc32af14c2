package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/clubdesk/docs"
	"github.com/fatflowers/clubdesk/internal/app/api/handlers"
	mw "github.com/fatflowers/clubdesk/internal/app/api/middleware"
	"github.com/fatflowers/clubdesk/internal/app/service/enrollment"
	"github.com/fatflowers/clubdesk/internal/app/service/export"
	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/internal/app/service/reminder"
	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	cfgpkg "github.com/fatflowers/clubdesk/pkg/config"
	"github.com/fatflowers/clubdesk/pkg/metrics"
)

func newEngine(p *metrics.Prometheus) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Request logger & access log are attached per group in registerRoutes.
	r.Use(mw.TraceMiddleware(), p.HandlerFunc())
	return r
}

type routeDeps struct {
	fx.In

	Log           *zap.SugaredLogger
	Cfg           *cfgpkg.Config
	DB            *gorm.DB
	Subscriptions *subscription.Service
	Enrollment    *enrollment.Service
	Ledger        *ledger.Service
	Packs         *pack.Service
	Reminders     *reminder.Service
	Export        *export.Service
}

func newServices(d routeDeps) handlers.Services {
	return handlers.Services{
		Subscriptions: d.Subscriptions,
		Enrollment:    d.Enrollment,
		Ledger:        d.Ledger,
		Packs:         d.Packs,
		Reminders:     d.Reminders,
		Export:        d.Export,
	}
}

func pingDB(db *gorm.DB) handlers.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub, pingDB(d.DB))
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if d.Cfg.Auth.JWTSecret == "" {
		d.Log.Warnw("auth.jwt_secret is empty, trusting the X-Operator-ID header")
	}
	admin := r.Group("/api/v1/admin")
	admin.Use(
		mw.PrincipalMiddleware(d.Cfg.Auth.JWTSecret, d.Log),
		mw.RequestLoggerMiddleware(d.Log),
		mw.AccessLogMiddleware(),
	)
	handlers.RegisterAdminRoutes(admin, newServices(d))
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	serve(lc, log, "HTTP", srv)
}

// runMetricsServer exposes the Prometheus registry on metrics_addr, apart from the API port.
func runMetricsServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, p *metrics.Prometheus) {
	if cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(p.MetricsPath, p.Handler())
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	serve(lc, log, "metrics", srv)
}

func serve(lc fx.Lifecycle, log *zap.SugaredLogger, name string, srv *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting "+name+" server", "addr", srv.Addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("%s server error: %v", name, err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping " + name + " server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
	fx.Invoke(runMetricsServer),
)
