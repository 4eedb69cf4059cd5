package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты журнала локаций (CRUD без update)
	locations := api.Group("/locations")
	{
		locations.GET("", h.listLocations)
		locations.POST("", h.createLocation)
		locations.DELETE("", h.clearLocations)
		locations.GET("/:id", h.getLocation)
		locations.DELETE("/:id", h.deleteLocation)
	}

	// Маршруты источника местоположения
	position := api.Group("/position")
	{
		position.GET("", h.currentPosition)
		position.GET("/watch", h.watchPosition)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
