package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tide_notification_bot/internal/app"
	"tide_notification_bot/internal/domain/ledger"
	"tide_notification_bot/internal/domain/location"
	"tide_notification_bot/internal/infra/config"
	"tide_notification_bot/internal/infra/cwa"
	idb "tide_notification_bot/internal/infra/database"
	"tide_notification_bot/internal/infra/discord"
	"tide_notification_bot/internal/infra/httpapi"
	"tide_notification_bot/internal/infra/logger"
	"tide_notification_bot/internal/infra/scheduler"
)

func main() {
	fmt.Println("Tide Notification Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithField("environment", cfg.Environment).
		WithField("ledger_driver", cfg.LedgerDriver).
		WithField("presence_notify", cfg.PresenceNotifyEnabled).
		Info("Configuration loaded")
	if cfg.CWAAPIKey == "" {
		mainLogger.Warn("CWA_API_KEY is not set, every tide lookup will report a missing key")
	}

	// Ledger
	ledgerRepo, db, err := openLedger(cfg)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not initialise notification ledger")
	}
	if db != nil {
		defer db.Close()
	}
	mainLogger.WithField("driver", cfg.LedgerDriver).Info("Notification ledger initialized")

	// Tide lookups
	dir := location.Default()
	cwaClient := cwa.NewClient(cfg.CWABaseURL, cfg.CWAAPIKey, logger.Component("cwa"))
	tideService := app.NewTideService(cwaClient, dir, cfg.FetchConcurrency, logger.Component("tide_service"))
	selections := app.NewSelectionController(dir, cfg.SelectionIdleTimeout)

	// Discord
	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Discord session")
	}
	chatClient := discord.NewAdapter(session, logger.Component("discord"))

	notifier := app.NewPresenceNotifier(
		app.PresenceNotifierConfig{Enabled: cfg.PresenceNotifyEnabled, ChannelName: cfg.NotifyChannelName},
		ledgerRepo,
		tideService,
		chatClient,
		dir,
		logger.Component("presence_notifier"),
	)
	discord.RegisterHandlers(
		session,
		discord.NewInteractionHandlers(selections, tideService, logger.Component("interactions")),
		discord.NewPresenceHandler(notifier, logger.Component("presence")),
		logger.Component("discord"),
	)

	if err := session.Open(); err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to Discord")
	}
	defer session.Close()

	if err := discord.RegisterCommands(session, cfg.DiscordGuildID); err != nil {
		mainLogger.WithError(err).Fatal("Could not register slash commands")
	}
	mainLogger.WithField("guild_id", cfg.DiscordGuildID).Info("Slash commands registered")

	// Scheduler
	specs := scheduler.Specs{
		SessionSweep: cfg.CronSpecSessionSweep,
		LedgerPrune:  cfg.CronSpecLedgerPrune,
	}
	if cfg.DailyReportEnabled() {
		specs.Daily = &scheduler.DailyReport{
			CronSpec:  cfg.DailyReportCron,
			County:    cfg.DailyReportCounty,
			ChannelID: cfg.DailyReportChannelID,
		}
	}
	tideScheduler := scheduler.NewTideScheduler(selections, ledgerRepo, tideService, chatClient, logger.Component("scheduler"), specs)
	if err := tideScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	// HTTP API
	var server *http.Server
	if cfg.HTTPAddr != "" {
		server = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpapi.SetupRouter(tideService, cfg.CORSAllowedOrigins, logger.Component("http")),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			mainLogger.WithField("addr", cfg.HTTPAddr).Info("HTTP API listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				mainLogger.WithError(err).Error("HTTP API stopped")
			}
		}()
	}

	mainLogger.Info("Application setup complete. Bot is running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := server.Shutdown(ctx); err != nil {
			mainLogger.WithError(err).Warn("HTTP API did not shut down cleanly")
		}
		cancel()
	}
	tideScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}

// openLedger builds the ledger repository for the configured driver. The
// returned *sql.DB is nil for the in-memory ledger.
func openLedger(cfg *config.AppConfig) (ledger.Repository, *sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.LedgerDriver {
	case config.LedgerDriverPostgres:
		db, err = idb.NewPostgresConnection(cfg.DatabaseURL)
	case config.LedgerDriverSQLite:
		db, err = idb.NewSQLiteConnection(cfg.DatabaseURL)
	default:
		return idb.NewMemoryLedgerRepository(), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := idb.EnsureLedgerSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	if cfg.LedgerDriver == config.LedgerDriverPostgres {
		return idb.NewPostgresLedgerRepository(db), db, nil
	}
	return idb.NewSQLiteLedgerRepository(db), db, nil
}
