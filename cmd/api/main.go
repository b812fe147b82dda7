package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/repository"
	"shareit/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
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

	store, dbCloser, err := initStore(cfg, &logger)
	if err != nil {
		return err
	}
	if dbCloser != nil {
		defer dbCloser.Close()
	}

	if err := seedStore(cfg, store, &logger); err != nil {
		return err
	}

	limiter := initRateLimiter(cfg, &logger)

	eventBus := events.NewEventBus()
	bookingService := service.NewBookingService(store, eventBus, nil, &logger)
	userService := service.NewUserService(store, &logger)
	itemService := service.NewItemService(store, &logger)
	requestService := service.NewRequestService(store, &logger)
	exporter := export.NewExporter(store, cfg.Exports.Path, &logger)

	httpServer := api.NewHTTPServer(cfg, bookingService, userService, itemService, requestService, limiter, exporter, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)
	startBackup(ctx, cfg, &logger)

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
	logger := logging.Component(baseLogger, "api-main")

	return cfg, logger, closer, nil
}

// initStore picks the backend: SQLite when a database path is set,
// otherwise the in-process store.
func initStore(cfg *config.Config, logger *zerolog.Logger) (domain.Store, io.Closer, error) {
	if cfg.Database.Path == "" {
		logger.Info().Msg("no database path configured, using in-memory store")
		return repository.NewMemoryStore(), nil, nil
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, nil, err
	}
	return db, db, nil
}

func seedStore(cfg *config.Config, store domain.Store, logger *zerolog.Logger) error {
	seedPath := cfg.Server.SeedPath
	if seedPath == "" {
		return nil
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("read seed file")
		return err
	}

	var seed struct {
		Users []struct {
			Name  string `yaml:"name"`
			Email string `yaml:"email"`
		} `yaml:"users"`
		Items []struct {
			OwnerID     int64  `yaml:"owner_id"`
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Available   bool   `yaml:"available"`
		} `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("parse seed file")
		return err
	}

	ctx := context.Background()
	for _, u := range seed.Users {
		user := &models.User{Name: u.Name, Email: u.Email}
		if err := store.CreateUser(ctx, user); err != nil {
			// Re-running against an existing database is fine.
			logger.Warn().Err(err).Str("email", u.Email).Msg("seed user skipped")
		}
	}
	for _, i := range seed.Items {
		item := &models.Item{OwnerID: i.OwnerID, Name: i.Name, Description: i.Description, Available: i.Available}
		if err := store.CreateItem(ctx, item); err != nil {
			logger.Warn().Err(err).Str("name", i.Name).Msg("seed item skipped")
		}
	}

	logger.Info().Int("users", len(seed.Users)).Int("items", len(seed.Items)).Msg("seed data loaded")
	return nil
}

// initRateLimiter wires Redis-backed limiting with in-memory failover.
// Without a Redis address the memory limiter runs alone.
func initRateLimiter(cfg *config.Config, logger *zerolog.Logger) domain.RateLimiter {
	memoryLimiter := repository.NewMemoryRateLimiter()

	if cfg.Redis.Address == "" {
		return memoryLimiter
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory rate limiting")
		_ = repository.Close(redisClient)
		return memoryLimiter
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return repository.NewFailoverRateLimiter(repository.NewRedisRateLimiter(redisClient), memoryLimiter, logger)
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

func startBackup(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Backup.Enabled || cfg.Database.Path == "" {
		return
	}
	backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
	go backupService.Start(ctx)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.Server.Port).Msg("server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSecs)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}

	logger.Info().Msg("server stopped")
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
