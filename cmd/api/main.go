package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfarer/internal/api"
	"wayfarer/internal/config"
	"wayfarer/internal/database"
	"wayfarer/internal/domain"
	"wayfarer/internal/events"
	"wayfarer/internal/export"
	"wayfarer/internal/google"
	"wayfarer/internal/logging"
	"wayfarer/internal/metrics"
	"wayfarer/internal/models"
	"wayfarer/internal/notify"
	"wayfarer/internal/repository"
	"wayfarer/internal/service"
	"wayfarer/internal/session"
	"wayfarer/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	catalog, err := loadCatalog(&logger)
	if err != nil {
		return err
	}

	db, err := initDatabase(cfg, catalog, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
	go backup.Start(ctx)

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	sessions, sessionStore := initSessions(cfg, redisClient, &logger)

	rateTable := service.NewRateTable(db, &logger)
	if err := rateTable.Load(ctx); err != nil {
		logger.Error().Err(err).Msg("load currency rates")
		return err
	}

	catalogService := service.NewCatalogService(db, &logger)
	eventBus := events.NewEventBus()

	sessions.OnChange(func(identity *models.Identity) {
		payload := map[string]any{"signed_in": identity != nil}
		if identity != nil {
			payload["user_id"] = identity.ID
		}
		if err := eventBus.PublishJSON(events.EventSessionChanged, payload); err != nil {
			logger.Warn().Err(err).Msg("publish session change")
		}
	})

	sheetsService := initGoogleSheets(cfg, &logger)
	syncWorker := startSyncWorker(ctx, db, sheetsService, redisClient)

	notifier, err := initNotifier(cfg, eventBus, &logger)
	if err != nil {
		return err
	}

	workflow := service.NewBookingWorkflow(db, sessions, notifier, eventBus, syncWorker, &logger)
	exporter := export.NewExcelExporter(db, cfg.Exports.Path, &logger)

	httpServer := api.NewHTTPServer(cfg.API, catalogService, rateTable, workflow, exporter, sessionStore, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

type catalogFile struct {
	Cities []models.City         `yaml:"cities"`
	Hotels []models.Hotel        `yaml:"hotels"`
	Rates  []models.CurrencyRate `yaml:"rates"`
}

func loadCatalog(logger *zerolog.Logger) (*catalogFile, error) {
	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = "configs/catalog.yaml"
	}
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", catalogPath).Msg("read catalog")
		return nil, err
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		logger.Error().Err(err).Str("catalog_path", catalogPath).Msg("parse catalog")
		return nil, err
	}

	if err := config.ValidateCatalog(catalog.Cities, catalog.Hotels); err != nil {
		logger.Error().Err(err).Str("catalog_path", catalogPath).Msg("invalid catalog")
		return nil, err
	}

	return &catalog, nil
}

func initDatabase(cfg *config.Config, catalog *catalogFile, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	ctx := context.Background()
	if err := db.SeedCatalog(ctx, catalog.Cities, catalog.Hotels); err != nil {
		logger.Error().Err(err).Msg("seed catalog")
		db.Close()
		return nil, err
	}
	for i := range catalog.Rates {
		if err := db.UpsertRate(ctx, &catalog.Rates[i]); err != nil {
			logger.Error().Err(err).Msg("seed currency rates")
			db.Close()
			return nil, err
		}
	}

	logger.Info().
		Int("cities", len(catalog.Cities)).
		Int("hotels", len(catalog.Hotels)).
		Int("rates", len(catalog.Rates)).
		Msg("catalog loaded")
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initSessions builds the session cache: Redis with an in-memory fallback
// when Redis is configured, plain in-memory otherwise. The store doubles
// as the per-user booking rate limiter.
func initSessions(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) (*session.Provider, domain.SessionStore) {
	ttl := time.Duration(cfg.Session.CacheTTLSeconds) * time.Second
	memory := repository.NewMemorySessionStore(ttl)

	var store domain.SessionStore = memory
	if redisClient != nil {
		redisStore := repository.NewRedisSessionStore(redisClient, ttl)
		store = repository.NewFailoverSessionStore(redisStore, memory, logger)
	}

	return session.NewProvider(cfg.Session, store, logger), store
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.BookingSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(
		cfg.Google.GoogleCredentialsFile,
		cfg.Google.BookingSpreadSheetID,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func startSyncWorker(ctx context.Context, db *database.DB, sheets *google.SheetsService, redisClient *redis.Client) domain.SyncWorker {
	if sheets == nil {
		return nil
	}

	w := worker.NewSyncWorker(db, sheets, redisClient, worker.RetryPolicy{}, log.New(os.Stdout, "", log.LstdFlags))
	go w.Start(ctx)
	return w
}

func initNotifier(cfg *config.Config, eventBus *events.EventBus, logger *zerolog.Logger) (domain.Notifier, error) {
	recorder := notify.NewRecorder()

	tg, err := notify.NewTelegramNotifierFromConfig(cfg.Telegram, logger)
	if err != nil {
		logger.Error().Err(err).Msg("telegram init failed")
		return nil, err
	}
	if tg == nil {
		return recorder, nil
	}

	// Richer per-booking alert goes out on the created event.
	eventBus.Subscribe(events.EventBookingCreated, func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		booking := &models.Booking{
			Reference:    payload.Reference,
			HotelName:    payload.HotelName,
			CheckInDate:  payload.CheckIn,
			CheckOutDate: payload.CheckOut,
			Guests:       payload.Guests,
			TotalAmount:  payload.TotalAmount,
			Currency:     payload.Currency,
		}
		return tg.NotifyBooking(context.Background(), booking)
	})

	return notify.NewMulti(recorder, tg), nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
