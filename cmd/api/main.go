package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/sonumarket-core/api"
	"github.com/angelmondragon/sonumarket-core/api/controllers"
	"github.com/angelmondragon/sonumarket-core/api/routes"
	"github.com/angelmondragon/sonumarket-core/internal/cart"
	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/internal/catalog/query"
	"github.com/angelmondragon/sonumarket-core/internal/payments"
	"github.com/angelmondragon/sonumarket-core/internal/persistence"
	"github.com/angelmondragon/sonumarket-core/internal/session"
	"github.com/angelmondragon/sonumarket-core/pkg/config"
	"github.com/angelmondragon/sonumarket-core/pkg/db"
	"github.com/angelmondragon/sonumarket-core/pkg/instance"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
	"github.com/angelmondragon/sonumarket-core/pkg/metrics"
	"github.com/angelmondragon/sonumarket-core/pkg/migrate"
	"github.com/angelmondragon/sonumarket-core/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if port := os.Getenv("PORT"); port != "" {
		cfg.App.Port = port
	}

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store := catalog.Default()
	engine, err := query.NewEngine(store, query.Options{DefaultPriceMax: cfg.Catalog.DefaultPriceMax})
	if err != nil {
		return err
	}

	ready := map[string]controllers.Pinger{}
	snapshots, closeStore, err := openSnapshotStore(ctx, cfg, logg, ready)
	if err != nil {
		return err
	}
	defer closeStore()

	writer, err := persistence.NewWriter(snapshots, persistence.WriterOptions{
		WriteTimeout: cfg.Store.WriteTimeout,
		Logger:       logg,
		Metrics:      metrics.NewPersistenceMetrics(reg),
	})
	if err != nil {
		return err
	}

	charger, err := payments.NewSimulated(cfg.Payments, logg)
	if err != nil {
		return err
	}

	sessions, err := session.NewManager(session.Options{
		Catalog:       store,
		Store:         snapshots,
		Writer:        writer,
		Charger:       charger,
		Pricing:       cart.PricingFromConfig(cfg.Cart),
		Logger:        logg,
		CartMetrics:   metrics.NewCartMetrics(reg),
		WizardMetrics: metrics.NewWizardMetrics(reg),
	})
	if err != nil {
		return err
	}

	server := api.NewServer(cfg, routes.NewRouter(routes.RouterParams{
		Config:   cfg,
		Logger:   logg,
		Catalog:  store,
		Query:    engine,
		Sessions: sessions,
		Ready:    ready,
		Gatherer: reg,
	}))

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": instance.GetID(),
		"store":    cfg.Store.Backend,
	})
	logg.Info(logCtx, "starting api server")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		logg.Info(logCtx, "shutting down api server")
		serverErr := server.Shutdown(shutdownCtx)
		if err := writer.Close(shutdownCtx); err != nil {
			logg.Error(logCtx, "snapshot writer drained with errors", err)
		}
		return serverErr
	})
	return g.Wait()
}

// openSnapshotStore builds the configured snapshot backend and registers its
// readiness probe.
func openSnapshotStore(ctx context.Context, cfg *config.Config, logg *logger.Logger, ready map[string]controllers.Pinger) (persistence.Store, func(), error) {
	noop := func() {}
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, noop, err
		}
		store, err := persistence.NewRedisStore(client, cfg.Redis.SnapshotTTL)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		ready["redis"] = client
		return store, func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}, nil

	case config.StoreBackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			closeDB()
			return nil, noop, err
		}
		store, err := persistence.NewSQLStore(client.DB())
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		ready["database"] = client
		return store, closeDB, nil
	}

	logg.Warn(ctx, "snapshots are kept in memory and lost on restart")
	return persistence.NewMemoryStore(), noop, nil
}
