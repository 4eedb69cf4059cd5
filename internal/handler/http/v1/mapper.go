package v1

import (
	"github.com/shenikar/location_logger/internal/models"
	"github.com/shenikar/location_logger/pkg/geolocation"
)

// RequestToLocationModel преобразует DTO создания в доменную модель.
// ID и Timestamp остаются нулевыми - их присваивает хранилище.
func RequestToLocationModel(dto CreateLocationRequest) *models.Location {
	return &models.Location{
		Name:      dto.Name,
		Latitude:  dto.Latitude,
		Longitude: dto.Longitude,
		Accuracy:  dto.Accuracy,
	}
}

// ModelToLocationResponse преобразует доменную модель в DTO для ответа
func ModelToLocationResponse(model *models.Location) *LocationResponse {
	return &LocationResponse{
		ID:        model.ID,
		Name:      model.Name,
		Latitude:  model.Latitude,
		Longitude: model.Longitude,
		Accuracy:  model.Accuracy,
		Timestamp: model.Timestamp,
	}
}

// ModelsToLocationResponses преобразует слайс моделей в слайс DTO
func ModelsToLocationResponses(models []*models.Location) []*LocationResponse {
	responses := make([]*LocationResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToLocationResponse(model)
	}
	return responses
}

// PositionToResponse преобразует fix источника местоположения в DTO
func PositionToResponse(fix geolocation.Position) *PositionResponse {
	return &PositionResponse{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Accuracy:  fix.Accuracy,
		Timestamp: fix.Timestamp,
	}
}
