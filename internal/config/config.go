package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	// DatabaseURL пустой - хранилище работает в памяти (volatile),
	// непустой - используется PostgreSQL (durable). Вариант выбирается
	// один раз при старте процесса.
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config (опциональный best-effort кеш списка локаций)
	RedisAddr string        `env:"REDIS_ADDR"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Geolocation Config
	GPSPort            string        `env:"GPS_SERIAL_PORT"`
	GPSBaudRate        int           `env:"GPS_BAUD_RATE" envDefault:"9600"`
	GeoHighAccuracy    bool          `env:"GEO_HIGH_ACCURACY" envDefault:"true"`
	GeoTimeout         time.Duration `env:"GEO_TIMEOUT" envDefault:"10s"`
	GeoMaximumCacheAge time.Duration `env:"GEO_MAXIMUM_CACHE_AGE" envDefault:"60s"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		CacheTTL:           getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		GPSPort:            os.Getenv("GPS_SERIAL_PORT"),
		GPSBaudRate:        getEnvAsInt("GPS_BAUD_RATE", 9600),
		GeoHighAccuracy:    getEnvAsBool("GEO_HIGH_ACCURACY", true),
		GeoTimeout:         getEnvAsDuration("GEO_TIMEOUT", 10*time.Second),
		GeoMaximumCacheAge: getEnvAsDuration("GEO_MAXIMUM_CACHE_AGE", 60*time.Second),
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool возвращает значение переменной окружения как bool или значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
