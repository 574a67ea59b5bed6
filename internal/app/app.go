package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/despertar/internal/adapters/memory"
	"github.com/emiliopalmerini/despertar/internal/adapters/otel"
	"github.com/emiliopalmerini/despertar/internal/adapters/turso"
	"github.com/emiliopalmerini/despertar/internal/analytics"
	"github.com/emiliopalmerini/despertar/internal/apiclient"
	"github.com/emiliopalmerini/despertar/internal/dashboard"
	"github.com/emiliopalmerini/despertar/internal/experiment"
	"github.com/emiliopalmerini/despertar/internal/migrate"
	"github.com/emiliopalmerini/despertar/internal/onboarding"
	"github.com/emiliopalmerini/despertar/internal/plans"
	"github.com/emiliopalmerini/despertar/internal/ports"
	"github.com/emiliopalmerini/despertar/internal/server"
)

// NewLogger returns a development logger for LOG_LEVEL=debug and a
// production logger otherwise.
func NewLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return cfg.Build()
}

// OpenStore returns the key-value store selected by the database URL and a
// func releasing it. SQL stores are migrated before use.
func OpenStore(ctx context.Context, cfg *Config, logger *zap.Logger) (ports.KeyValueStore, func() error, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using in-memory store")
		return memory.NewKeyValueStore(), func() error { return nil }, nil
	}

	db, err := turso.Open(ctx, cfg.DatabaseURL, cfg.DatabaseAuthToken)
	if err != nil {
		return nil, nil, err
	}
	if err := migrate.RunAll(ctx, db.DB, logger); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("using sql store", zap.String("driver", db.Driver), zap.Bool("remote", turso.IsRemote(cfg.DatabaseURL)))
	return turso.NewKeyValueStore(db.DB), db.Close, nil
}

// NewTracker builds the analytics tracker: events always go to the log and
// to OTEL when it is configured.
func NewTracker(ctx context.Context, cfg *Config, logger *zap.Logger) *analytics.Tracker {
	exporters := []ports.EventExporter{analytics.NewLogExporter(logger)}
	if cfg.Otel.Enabled {
		exp, err := otel.NewExporter(ctx, cfg.Otel)
		if err != nil {
			logger.Warn("otel exporter disabled", zap.Error(err))
			exporters = append(exporters, otel.NewNoOpExporter())
		} else {
			exporters = append(exporters, exp)
		}
	}
	return analytics.NewTracker(cfg.AnalyticsEnabled, logger, exporters...)
}

// Run serves the HTTP API until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	registry, err := experiment.LoadOrDefault(cfg.Experiments.File)
	if err != nil {
		return err
	}
	engine := experiment.NewEngine(store, registry, cfg.Experiments.ForceControl, logger.Named("experiment"))
	if cfg.Experiments.ForceControl {
		logger.Info("experiments forced to control")
	}

	tracker := NewTracker(ctx, cfg, logger)
	defer func() {
		if err := tracker.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to close analytics", zap.Error(err))
		}
	}()

	client := apiclient.New(cfg.PlansAPIURL(),
		apiclient.WithTimeout(cfg.Plans.Timeout),
		apiclient.WithMinDelay(cfg.Plans.MinDelay),
		apiclient.WithLogger(logger.Named("apiclient")),
	)

	flows := onboarding.NewService(
		onboarding.NewKVRepository(store),
		engine,
		client,
		tracker,
		onboarding.Config{CheckoutURL: cfg.CheckoutURL, PlanTimeout: cfg.Plans.Timeout},
		logger.Named("onboarding"),
	)

	httpSrv := server.NewHTTPServer(server.Config{Addr: cfg.Addr}, server.Handlers{
		Plans: plans.NewHandler(plans.NewKVRepository(store), plans.Config{
			GenerateLatency: cfg.Plans.SimulatedLatency,
			TaskLatency:     cfg.TaskSimulatedLatency,
		}, logger.Named("plans")),
		Onboarding: onboarding.NewHandler(flows, logger.Named("onboarding")),
		Dashboard:  dashboard.NewHandler(dashboard.NewKVRepository(store), logger.Named("dashboard")),
	}, logger.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.Addr), zap.String("plans_api", cfg.PlansAPIURL()))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
