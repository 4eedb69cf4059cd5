package geolocation

import "time"

// Position - единичное определение местоположения (fix), полученное от
// платформенного источника геолокации.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Options - общая конфигурация для одиночного запроса и для подписки.
type Options struct {
	// EnableHighAccuracy - предпочитать точные (и более энергозатратные)
	// источники; для GPS это означает принимать только строки с реальным fix.
	EnableHighAccuracy bool
	// Timeout - максимальное время ожидания fix для одиночного запроса.
	Timeout time.Duration
	// MaximumCacheAge - допустимый возраст закешированного fix; если
	// последний fix не старше, новый запрос к источнику не выполняется.
	MaximumCacheAge time.Duration
}

// DefaultOptions возвращает конфигурацию по умолчанию.
func DefaultOptions() Options {
	return Options{
		EnableHighAccuracy: true,
		Timeout:            10 * time.Second,
		MaximumCacheAge:    60 * time.Second,
	}
}
