package cmd

import (
	"context"
	"fmt"
	"time"

	"botoclock/bot"
	"botoclock/config"
	"botoclock/database"
	"botoclock/domain/interfaces"
	"botoclock/domain/services"
	"botoclock/events"
	"botoclock/infrastructure"
	"botoclock/infrastructure/observability"
	"botoclock/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.Info("Starting Bot o'clock...")

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus(cfg.WorkerPoolSize)
	defer eventBus.Close()
	log.WithField("poolSize", cfg.WorkerPoolSize).Info("Event bus initialized")

	// External event publishing
	subjectMapper := infrastructure.NewEventSubjectMapper()
	publisher, closePublisher, err := newExternalPublisher(ctx, cfg, subjectMapper)
	if err != nil {
		return err
	}
	defer closePublisher()
	infrastructure.ForwardEvents(eventBus, publisher, subjectMapper.ForwardedEventTypes()...)
	observability.GetMetrics().SubscribeToBus(eventBus)

	// Stores and platform
	clockRepo := repository.NewClockRepository(db)
	userTimezoneRepo := repository.NewUserTimezoneRepository(db)

	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	platform := infrastructure.NewDiscordPlatform(session, cfg.PlatformEditsPerSecond)

	// Services
	clockService := services.NewClockService(clockRepo, platform, eventBus, cfg.MaxClocksPerGuild)
	reconciliation := services.NewReconciliationService(clockRepo, platform, eventBus)
	services.SubscribeReconciliation(eventBus, reconciliation)

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Prefixes:           cfg.CommandPrefixes,
		RefreshEnabled:     cfg.ClockRefreshEnabled,
		RefreshSchedule:    cfg.ClockRefreshSchedule,
		SweepOnGuildCreate: cfg.SweepOnGuildCreate,
	}, session, eventBus, bot.Services{
		Clocks:            clockService,
		Reconciliation:    reconciliation,
		PersonalTimezones: services.NewPersonalTimezoneService(userTimezoneRepo),
		Refresh:           services.NewClockRefreshService(clockRepo, platform, eventBus),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"maxClocks":   cfg.MaxClocksPerGuild,
		"prefixes":    cfg.CommandPrefixes,
	}).Info("Bot is running")
	<-ctx.Done()

	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	// Let in-flight handlers finish before the pool and publisher go away
	eventBus.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return nil
}

// newExternalPublisher connects to NATS when servers are configured, otherwise
// events stay in process
func newExternalPublisher(ctx context.Context, cfg *config.Config, mapper *infrastructure.EventSubjectMapper) (interfaces.ExternalEventPublisher, func(), error) {
	if cfg.NATSServers == "" {
		log.Info("NATS_SERVERS not set, external event publishing disabled")
		return infrastructure.NewNoopEventPublisher(), func() {}, nil
	}

	client := infrastructure.NewNATSClient(cfg.NATSServers)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return nil, nil, err
	}
	if err := infrastructure.EnsureClockEventStream(client, mapper); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ensure clock event stream: %w", err)
	}

	closeClient := func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("Error closing NATS client")
		}
	}
	return infrastructure.NewNATSEventPublisher(client, mapper), closeClient, nil
}
