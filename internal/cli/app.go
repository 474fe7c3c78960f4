package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/framecast"
	"github.com/aretw0/framecast/internal/config"
	transport "github.com/aretw0/framecast/pkg/adapters/http"
	"github.com/aretw0/framecast/pkg/adapters/redis"
	"github.com/aretw0/framecast/pkg/observability"
	"github.com/aretw0/framecast/pkg/persistence/middleware"
	"github.com/aretw0/framecast/pkg/scheduler"
	"github.com/aretw0/framecast/pkg/session"
)

// App is the assembled server: engine, metrics, session manager and the
// HTTP handler in front of them.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Engine  *framecast.Engine
	Metrics *observability.Metrics
	Manager *session.Manager
	Store   *redis.Store // Nil unless redis.addr is set
	Handler http.Handler
}

// NewApp wires the components described by cfg. The caller owns the result
// and must call Close.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	img, err := NewCodec(cfg.Render)
	if err != nil {
		return nil, err
	}
	engine, err := CreateEngine(ctx, cfg, img, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Engine:  engine,
		Metrics: observability.NewMetrics(),
	}

	managerOpts := []session.Option{
		session.WithLogger(logger),
		session.WithHooks(observability.Compose(app.Metrics.Hooks(), observability.LogHooks(logger))),
		session.WithSchedulerOptions(
			scheduler.WithInterval(cfg.Render.Interval),
			scheduler.WithFallback(cfg.Render.Fallback()),
			scheduler.WithLogger(logger),
		),
	}

	if cfg.Redis.Addr != "" {
		store, err := NewStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		app.Store = store
		mirror := middleware.Chain(
			middleware.NewMetricsMiddleware(app.Metrics.StoreOps),
			middleware.NewLoggingMiddleware(logger),
		)(store)
		managerOpts = append(managerOpts, session.WithStore(mirror))
		logger.Info("Session directory enabled", "redis", cfg.Redis.Addr)
	}

	app.Manager = session.NewManager(engine, managerOpts...)
	app.Handler = transport.NewHandler(app.Manager, engine.Codec(),
		transport.WithRenderer(engine),
		transport.WithMetricsHandler(app.Metrics.Handler()),
		transport.WithDefaultMode(cfg.Render.DeliveryMode()),
		transport.WithLogger(logger),
	)
	return app, nil
}

// NewStore connects to the configured Redis session directory.
func NewStore(ctx context.Context, cfg config.RedisConfig) (*redis.Store, error) {
	store := redis.New(cfg.Addr, cfg.Password, cfg.DB,
		redis.WithPrefix(cfg.Prefix),
		redis.WithTTL(cfg.TTL),
	)
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("error connecting to redis at %s: %w", cfg.Addr, err)
	}
	return store, nil
}

// Close shuts every session down and releases the store.
func (a *App) Close(ctx context.Context) error {
	err := a.Manager.Shutdown(ctx)
	if a.Store != nil {
		err = errors.Join(err, a.Store.Close())
	}
	return err
}
