package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"

	"comparaparqueaderos/internal/api"
	"comparaparqueaderos/internal/cache"
	"comparaparqueaderos/internal/config"
	"comparaparqueaderos/internal/events"
	"comparaparqueaderos/internal/logging"
	"comparaparqueaderos/internal/repository"
	"comparaparqueaderos/internal/service"
	"comparaparqueaderos/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(context.Background()); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.RunMigrations {
		if err := migrate(context.Background(), db, logger); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	offerRepo := repository.NewOfferRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	jobRepo := repository.NewJobRepository(db)

	var offerCache service.OfferCache
	if cfg.RedisAddr != "" {
		offerCache = cache.NewRedisOfferCache(cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword), cfg.OfferCacheTTL)
		logger.Info("offer cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.OfferCacheTTL)
	}

	notifiers := service.NewMultiNotifier()
	if cfg.TwilioEnabled() {
		sender := service.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
		notifiers.Add("sms", service.NewOperatorSMSNotifier(sender, cfg.SiteName))
	}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher := events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		defer publisher.Close()
		notifiers.Add("kafka", service.NewEventNotifier(publisher))
	}
	var notifier service.BookingNotifier
	if notifiers.Len() > 0 {
		notifier = notifiers
	}

	bookingService := service.NewBookingService(offerRepo, bookingRepo, notifier, service.BookingConfig{
		SiteName:        cfg.SiteName,
		WhatsappBaseURL: cfg.WhatsappBaseURL,
		InsertTimeout:   cfg.BookingInsertTimeout,
	}, logger)
	searchService := service.NewSearchService(offerRepo, offerCache, logger)

	scheduler := cron.New(cron.WithLocation(cfg.Location()))
	if cfg.DigestEnabled() {
		mailer := service.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
		jobService := service.NewJobService(jobRepo, mailer, cfg.DigestEmail, cfg.SiteName, cfg.Location(), logger)
		if _, err := scheduler.AddFunc(cfg.DigestCron, func() {
			if err := jobService.SendDailyDigest(context.Background()); err != nil {
				logger.Error("daily digest failed", "error", err)
			}
		}); err != nil {
			logger.Error("invalid DIGEST_CRON", "schedule", cfg.DigestCron, "error", err)
			os.Exit(1)
		}
		logger.Info("daily digest scheduled", "schedule", cfg.DigestCron, "to", cfg.DigestEmail)
	}
	scheduler.Start()

	router := api.NewRouter(api.RouterDeps{
		Bookings: bookingService,
		Search:   searchService,
		DB:       db,
		Logger:   logger,
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins()),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.ProxyHeaders(cors(router)),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		logger.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
