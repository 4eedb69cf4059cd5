package models

import (
	"time"
)

// Location представляет сохраненную пользователем географическую точку.
// Accuracy хранится как указатель: nil означает, что источник не сообщил
// точность, и это отличается от точности 0 метров.
type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
