package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/location_logger/internal/config"
	v1 "github.com/shenikar/location_logger/internal/handler/http/v1"
	"github.com/shenikar/location_logger/internal/repository"
	"github.com/shenikar/location_logger/internal/service"
	"github.com/shenikar/location_logger/pkg/geolocation"
	"github.com/shenikar/location_logger/pkg/logger"
	"github.com/shenikar/location_logger/pkg/postgres"
	redisclient "github.com/shenikar/location_logger/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/location_logger/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Location Logger API
// @version 1.0
// @description This is a personal location logging API server.
// @host localhost:8080
// @BasePath /api
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// newLocationRepository выбирает вариант хранилища по конфигурации:
// с DATABASE_URL - PostgreSQL, без него - память процесса. Выбор делается
// один раз при старте и не меняется до завершения процесса.
func newLocationRepository(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.LocationRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL is not set, using in-memory location store")
		return repository.NewMemoryLocationRepository(), func() {}, nil
	}

	if err := runMigrations(cfg, log); err != nil {
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("Successfully connected to PostgreSQL")

	cleanup := func() { dbpool.Close() }

	// Redis опционален: без него durable-вариант работает без кеша списка
	if cfg.RedisAddr == "" {
		return repository.NewPostgresLocationRepository(dbpool, nil, cfg.CacheTTL, log), cleanup, nil
	}

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to Redis, continuing without list cache")
		return repository.NewPostgresLocationRepository(dbpool, nil, cfg.CacheTTL, log), cleanup, nil
	}
	log.Info("Successfully connected to Redis")

	cleanupAll := func() {
		redisClient.Close()
		dbpool.Close()
	}
	return repository.NewPostgresLocationRepository(dbpool, redisClient, cfg.CacheTTL, log), cleanupAll, nil
}

// newPositionSource собирает источник местоположения: serial GPS при
// сконфигурированном порте, иначе заглушка "capability unsupported"
func newPositionSource(cfg *config.Config, log *logrus.Logger) *geolocation.Source {
	opts := geolocation.Options{
		EnableHighAccuracy: cfg.GeoHighAccuracy,
		Timeout:            cfg.GeoTimeout,
		MaximumCacheAge:    cfg.GeoMaximumCacheAge,
	}

	var driver geolocation.Driver
	if cfg.GPSPort != "" {
		log.WithField("port", cfg.GPSPort).Info("Using NMEA GPS position driver")
		driver = geolocation.NewNMEADriver(cfg.GPSPort, cfg.GPSBaudRate)
	} else {
		log.Info("GPS_SERIAL_PORT is not set, position endpoints will report unsupported")
		driver = geolocation.UnsupportedDriver{}
	}

	return geolocation.NewSource(driver, opts, log)
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Выбор и инициализация хранилища локаций
	locationRepo, cleanup, err := newLocationRepository(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize location store: %v", err)
	}
	defer cleanup()

	// Инициализация источника местоположения
	positionSource := newPositionSource(cfg, log)

	// Инициализация сервисов
	locationService := service.NewLocationService(locationRepo, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(locationService, positionSource, log)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
