package v1

import (
	"time"
)

// CreateLocationRequest DTO для сохранения локации. Поля id и timestamp
// присваивает хранилище; запрос, содержащий их (или любое другое
// неизвестное поле), отклоняется с 400.
// @Description DTO для сохранения локации
type CreateLocationRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=255"`
	Latitude  float64  `json:"latitude" validate:"required,latitude"`
	Longitude float64  `json:"longitude" validate:"required,longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
}

// LocationResponse DTO для ответа с сохраненной локацией. Accuracy
// опускается, если источник точность не сообщил.
// @Description DTO для ответа с сохраненной локацией
type LocationResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PositionResponse DTO для ответа с текущим местоположением
// @Description DTO для ответа с текущим местоположением
type PositionResponse struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse DTO для ответа со статусом операции
// @Description DTO для ответа со статусом операции
type StatusResponse struct {
	Status string `json:"status"`
}
