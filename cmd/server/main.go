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
	"shareit/internal/worker"

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

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	userCache := buildUserCache(cfg, redisClient, &logger)

	eventBus := events.NewEventBus()

	auditWorker := worker.NewAuditWorker(db, worker.RetryPolicy{}, &logger)
	auditWorker.SubscribeAll(eventBus)

	clock := domain.SystemClock()
	bookingService := service.NewBookingService(db, eventBus, clock, &logger)
	itemService := service.NewItemService(db, eventBus, clock, &logger)
	userService := service.NewUserService(db, userCache, &logger)
	requestService := service.NewRequestService(db, clock, &logger)

	exporter := export.NewExporter(bookingService, cfg.Exports.Path, &logger)

	if cfg.Seed.Path != "" {
		if err := seedFixture(context.Background(), cfg.Seed.Path, userService, itemService, &logger); err != nil {
			logger.Warn().Err(err).Str("seed_path", cfg.Seed.Path).Msg("seed fixture skipped")
		}
	}

	server := api.NewServer(cfg.API, userService, itemService, bookingService, requestService, exporter, db, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditWorker.Start(ctx)
	startMetrics(ctx, cfg, &logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.Port).Msg("server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = server.Shutdown(shutdownCtx)
	auditWorker.Stop()

	logger.Info().Msg("server stopped")
	return nil
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
	logger := baseLogger.With().Str("component", "main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
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

// buildUserCache wires the look-aside cache: redis fronted by a memory
// fallback when redis is configured, plain memory otherwise.
func buildUserCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.UserCache {
	ttl := time.Duration(cfg.Redis.TTLSec) * time.Second
	if ttl <= 0 {
		ttl = models.DefaultCacheTTL * time.Second
	}

	memory := repository.NewMemoryUserCache(ttl)
	if redisClient == nil {
		return memory
	}

	primary := repository.NewRedisUserCache(redisClient, ttl)
	return repository.NewFailoverUserCache(primary, memory, logger)
}

// seedFixture loads development users and items from a YAML file. Entries
// that already exist are skipped.
func seedFixture(ctx context.Context, path string, users domain.UserService, items domain.ItemService, logger *zerolog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fixture struct {
		Users []struct {
			Name  string        `yaml:"name"`
			Email string        `yaml:"email"`
			Items []models.Item `yaml:"items"`
		} `yaml:"users"`
	}
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return err
	}

	for _, entry := range fixture.Users {
		user, err := users.CreateUser(ctx, models.User{Name: entry.Name, Email: entry.Email})
		if err != nil {
			logger.Debug().Err(err).Str("email", entry.Email).Msg("seed user skipped")
			continue
		}
		for _, item := range entry.Items {
			if _, err := items.CreateItem(ctx, user.ID, item); err != nil {
				logger.Debug().Err(err).Str("item", item.Name).Msg("seed item skipped")
			}
		}
	}

	logger.Info().Str("path", path).Int("users", len(fixture.Users)).Msg("seed fixture loaded")
	return nil
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

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("metrics server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
