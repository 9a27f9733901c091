package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/vendor-pricing-engine/internal/adapters/persistence"
	"github.com/andrescamacho/vendor-pricing-engine/internal/application/common"
	"github.com/andrescamacho/vendor-pricing-engine/internal/application/shop"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/pricing"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/session"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/settings"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
	"github.com/andrescamacho/vendor-pricing-engine/internal/infrastructure/config"
	"github.com/andrescamacho/vendor-pricing-engine/internal/infrastructure/database"

	shophttp "github.com/andrescamacho/vendor-pricing-engine/internal/adapters/http"
	"github.com/andrescamacho/vendor-pricing-engine/internal/adapters/metrics"
)

// NewServeCommand creates the serve subcommand: the composition root that
// boots the whole engine (HTTP control plane, metrics server, repricing
// scheduler) from a cobra RunE, since this project ships one binary
// rather than a separate daemon and CLI.
func NewServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the vendor pricing engine",
		Long: `Run the vendor pricing engine: HTTP control plane (§6), Prometheus
metrics endpoint, and the periodic repricing scheduler (§4.6).

Example:
  shopctl serve --config ./config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.yaml (optional)")
	return cmd
}

func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.IncludeCaller}

	output := os.Stdout
	if cfg.Output == "stderr" {
		output = os.Stderr
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}
	return slog.New(handler)
}

// runServe wires every collaborator described by §4's modules and blocks
// until ctx is canceled (SIGINT/SIGTERM), then drains in-flight requests
// before returning.
func runServe(ctx context.Context, cfg *config.Config) error {
	logger := buildLogger(cfg.Logging)
	clock := shared.NewRealClock()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	catalogRepo := persistence.NewGormCatalogRepository(db)
	ledgerRepo := persistence.NewGormLedgerRepository(db)
	historyRepo := persistence.NewGormPriceHistoryRepository(db)
	settingsRepo := persistence.NewSettingsRepository(db)
	sessionRepo := persistence.NewSessionRepository(db)

	persistedSettings, err := settingsRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	store := settings.NewStore(clock, func(key, def string) {
		logger.Warn("settings key missing, using documented default", "key", key, "default", def)
	})
	for key, value := range persistedSettings {
		store.Set(key, value)
	}
	if _, persisted := persistedSettings[settings.KeyBaseOnlinePlayers]; !persisted && cfg.Engine.BaseOnlinePlayers > 0 {
		store.Set(settings.KeyBaseOnlinePlayers, fmt.Sprintf("%d", cfg.Engine.BaseOnlinePlayers))
	}
	if secs := int(cfg.Engine.TickInterval.Seconds()); secs > 0 {
		if _, persisted := persistedSettings[settings.KeyPriceUpdateInterval]; !persisted {
			store.Set(settings.KeyPriceUpdateInterval, fmt.Sprintf("%d", secs))
		}
	}

	snapshot := store.Snapshot()
	tiers := session.Tiers{
		Instant: snapshot.SessionWeightInstant,
		Short:   snapshot.SessionWeightShort,
		Medium:  snapshot.SessionWeightMedium,
		Long:    snapshot.SessionWeightLong,
	}
	sessionRegistry := session.NewRegistry(tiers, clock, func(s session.Session) {
		go func() {
			if err := sessionRepo.Upsert(context.Background(), s); err != nil {
				logger.Error("failed to persist session", "player_id", s.PlayerID.Value(), "error", err)
			}
		}()
	})
	persistedSessions, err := sessionRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	sessionRegistry.Seed(persistedSessions)

	led := ledger.NewLedger(ledgerRepo, ledgerRepo, clock).WithCommitTimeout(cfg.Engine.CommitTimeout)

	accumulator := pricing.NewAccumulator()

	var loc *time.Location
	if cfg.Engine.TimeZone != "" {
		loc, err = time.LoadLocation(cfg.Engine.TimeZone)
		if err != nil {
			return fmt.Errorf("invalid engine.time_zone %q: %w", cfg.Engine.TimeZone, err)
		}
	}

	engine := pricing.NewEngine(catalogRepo, accumulator, historyRepo, store, sessionRegistry, clock, loc)
	executor := shop.NewExecutor(catalogRepo, led, engine.Cache(), accumulator, sessionRegistry, store, clock, engine.Location())

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		sink := metrics.NewSink(logger)
		if err := sink.Register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		engine.WithEventSink(sink)
		executor.WithEventSink(sink)
	}

	mediator := common.NewMediator()
	if cfg.Metrics.Enabled {
		collector := metrics.NewCommandMetricsCollector()
		if err := collector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		mediator.RegisterMiddleware(metrics.PrometheusMiddleware(collector))
	}

	settingsWriter := settingsWriterAdapter{repo: settingsRepo}

	mustRegister(mediator, common.RegisterHandler[*shop.ExecuteTradeCommand](mediator, shop.NewExecuteTradeHandler(executor)))
	mustRegister(mediator, common.RegisterHandler[*shop.BatchExecuteCommand](mediator, shop.NewBatchExecuteHandler(executor, led)))
	mustRegister(mediator, common.RegisterHandler[*shop.SetBalanceCommand](mediator, shop.NewSetBalanceHandler(led)))
	mustRegister(mediator, common.RegisterHandler[*shop.GetBalanceQuery](mediator, shop.NewGetBalanceHandler(led, clock)))
	mustRegister(mediator, common.RegisterHandler[*shop.GetHistoryQuery](mediator, shop.NewGetHistoryHandler(led)))
	mustRegister(mediator, common.RegisterHandler[*shop.GetPriceQuery](mediator, shop.NewGetPriceHandler(catalogRepo, engine.Cache())))
	mustRegister(mediator, common.RegisterHandler[*shop.ListItemsQuery](mediator, shop.NewListItemsHandler(catalogRepo)))
	mustRegister(mediator, common.RegisterHandler[*shop.GetItemQuery](mediator, shop.NewGetItemHandler(catalogRepo)))
	mustRegister(mediator, common.RegisterHandler[*shop.AddItemCommand](mediator, shop.NewAddItemHandler(catalogRepo)))
	mustRegister(mediator, common.RegisterHandler[*shop.DeactivateItemCommand](mediator, shop.NewDeactivateItemHandler(catalogRepo)))
	mustRegister(mediator, common.RegisterHandler[*shop.GetSettingQuery](mediator, shop.NewGetSettingHandler(store)))
	mustRegister(mediator, common.RegisterHandler[*shop.SetSettingCommand](mediator, shop.NewSetSettingHandler(store, settingsWriter)))

	httpServer := shophttp.NewServer(mediator, shophttp.Config{
		Address:         cfg.Server.Address,
		APIKey:          cfg.Server.APIKey,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		RateLimit:       rate.Limit(cfg.Server.RateLimit),
		RateBurst:       cfg.Server.RateBurst,
	})

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	scheduler := pricing.NewScheduler(engine, func(err error) {
		logger.Error("repricing tick failed", "error", err)
	})

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go scheduler.Run(runCtx, store.DurationSeconds(settings.KeyPriceUpdateInterval))

	errCh := make(chan error, 2)
	go func() {
		logger.Info("control plane listening", "address", cfg.Server.Address)
		if err := httpServer.ListenAndServe(); err != nil {
			errCh <- fmt.Errorf("control plane: %w", err)
		}
	}()
	if metricsServer != nil {
		go func() {
			logger.Info("metrics listening", "host", cfg.Metrics.Host, "port", cfg.Metrics.Port)
			if err := metricsServer.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case <-runCtx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server error, shutting down", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("control plane shutdown error", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics shutdown error", "error", err)
		}
	}

	return nil
}

// mustRegister panics on a mediator registration failure: every handler
// type here is registered exactly once at startup, so a failure can only
// mean a programming error in this composition root, not a runtime
// condition callers should handle.
func mustRegister(_ common.Mediator, err error) {
	if err != nil {
		panic(fmt.Sprintf("failed to register mediator handler: %v", err))
	}
}

// settingsWriterAdapter satisfies shop.SettingsWriter over the persistence
// package's SettingsRepository, keeping the application layer's dependency
// on a narrow port rather than the concrete repository type.
type settingsWriterAdapter struct {
	repo *persistence.SettingsRepository
}

func (a settingsWriterAdapter) Save(ctx context.Context, key, value string) error {
	return a.repo.Save(ctx, key, value)
}
