package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/location_logger/internal/service"
	"github.com/shenikar/location_logger/pkg/geolocation"
	"github.com/sirupsen/logrus"
)

// PositionSource - контракт источника местоположения, нужный хендлеру.
// Ему соответствует *geolocation.Source.
type PositionSource interface {
	Current(ctx context.Context) (geolocation.Position, error)
	Watch(onFix func(geolocation.Position), onErr func(*geolocation.PositionError)) (*geolocation.Subscription, error)
	Cancel(sub *geolocation.Subscription)
}

type Handler struct {
	locationService service.LocationService
	positionSource  PositionSource
	logger          *logrus.Logger
	validate        *validator.Validate
}

func NewHandler(locationService service.LocationService, positionSource PositionSource, logger *logrus.Logger) *Handler {
	return &Handler{
		locationService: locationService,
		positionSource:  positionSource,
		logger:          logger,
		validate:        validator.New(),
	}
}

// @Summary Save a new location
// @Description Save a named location with coordinates. The id and timestamp are assigned by the store; a body carrying them is rejected.
// @Tags Locations
// @Accept json
// @Produce json
// @Param location body CreateLocationRequest true "Location create request"
// @Success 201 {object} LocationResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations [post]
func (h *Handler) createLocation(c *gin.Context) {
	log := h.logger.WithField("method", "createLocation")

	// DisallowUnknownFields отклоняет запросы с полями вне контракта,
	// в том числе попытки задать id или timestamp
	var input CreateLocationRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		log.WithError(err).Warn("Failed to decode JSON body")
		if strings.Contains(err.Error(), "unknown field") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body contains an unknown field"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, validationDetails(err))
		return
	}

	model := RequestToLocationModel(input)
	if err := h.locationService.CreateLocation(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create location in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToLocationResponse(model))
}

// @Summary Get a list of saved locations
// @Description Get all saved locations, newest first.
// @Tags Locations
// @Accept json
// @Produce json
// @Success 200 {array} LocationResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations [get]
func (h *Handler) listLocations(c *gin.Context) {
	log := h.logger.WithField("method", "listLocations")

	locations, err := h.locationService.ListLocations(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list locations from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToLocationResponses(locations))
}

// @Summary Get a saved location by ID
// @Description Get a single saved location by its ID.
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} LocationResponse
// @Failure 400 {object} map[string]string "Invalid location ID"
// @Failure 404 {object} map[string]string "Location not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations/{id} [get]
func (h *Handler) getLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location ID"})
		return
	}
	log := h.logger.WithField("method", "getLocation").WithField("id", id)

	location, err := h.locationService.GetLocation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		log.WithError(err).Error("Failed to get location from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToLocationResponse(location))
}

// @Summary Delete a saved location
// @Description Delete a single saved location by its ID.
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} map[string]string "Invalid location ID"
// @Failure 404 {object} map[string]string "Location not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations/{id} [delete]
func (h *Handler) deleteLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location ID"})
		return
	}
	log := h.logger.WithField("method", "deleteLocation").WithField("id", id)

	if err := h.locationService.DeleteLocation(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		log.WithError(err).Error("Failed to delete location in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
}

// @Summary Clear all saved locations
// @Description Unconditionally delete every saved location.
// @Tags Locations
// @Accept json
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations [delete]
func (h *Handler) clearLocations(c *gin.Context) {
	log := h.logger.WithField("method", "clearLocations")

	if err := h.locationService.ClearLocations(c.Request.Context()); err != nil {
		log.WithError(err).Error("Failed to clear locations in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "cleared"})
}

// @Summary Get the current position
// @Description Get a single position fix from the host location source.
// @Tags Position
// @Accept json
// @Produce json
// @Success 200 {object} PositionResponse
// @Failure 403 {object} map[string]string "Location permission denied"
// @Failure 501 {object} map[string]string "Location capability is not supported"
// @Failure 503 {object} map[string]string "Position information is unavailable"
// @Failure 504 {object} map[string]string "Timed out waiting for a position fix"
// @Router /position [get]
func (h *Handler) currentPosition(c *gin.Context) {
	log := h.logger.WithField("method", "currentPosition")

	fix, err := h.positionSource.Current(c.Request.Context())
	if err != nil {
		status, message := positionErrorResponse(err)
		log.WithError(err).Warn("Failed to get current position")
		c.JSON(status, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusOK, PositionToResponse(fix))
}

// @Summary Watch position updates
// @Description Stream position fixes as server-sent events until the client disconnects.
// @Tags Position
// @Produce text/event-stream
// @Success 200 {object} PositionResponse
// @Failure 501 {object} map[string]string "Location capability is not supported"
// @Router /position/watch [get]
func (h *Handler) watchPosition(c *gin.Context) {
	log := h.logger.WithField("method", "watchPosition")

	fixes := make(chan geolocation.Position, 8)
	watchErrs := make(chan *geolocation.PositionError, 8)

	sub, err := h.positionSource.Watch(
		func(p geolocation.Position) {
			select {
			case fixes <- p:
			default:
			}
		},
		func(e *geolocation.PositionError) {
			select {
			case watchErrs <- e:
			default:
			}
		},
	)
	if err != nil {
		status, message := positionErrorResponse(err)
		log.WithError(err).Warn("Failed to start position watch")
		c.JSON(status, gin.H{"error": message})
		return
	}
	defer h.positionSource.Cancel(sub)

	log.WithField("subscription_id", sub.ID).Info("Position watch stream opened")
	c.Stream(func(w io.Writer) bool {
		select {
		case fix := <-fixes:
			c.SSEvent("position", PositionToResponse(fix))
			return true
		case watchErr := <-watchErrs:
			c.SSEvent("error", gin.H{"code": watchErr.Code.String(), "message": watchErr.Message})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
	log.WithField("subscription_id", sub.ID).Info("Position watch stream closed")
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// validationDetails собирает ошибки валидации по полям для ответа 400
func validationDetails(err error) gin.H {
	fields := make(map[string]string)
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			fields[strings.ToLower(fieldErr.Field())] = fmt.Sprintf("failed on the '%s' rule", fieldErr.Tag())
		}
	}
	if len(fields) == 0 {
		return gin.H{"error": err.Error()}
	}
	return gin.H{"error": "validation failed", "fields": fields}
}

// positionErrorResponse сопоставляет причину отказа геолокации HTTP-статусу
// и понятному пользователю сообщению
func positionErrorResponse(err error) (int, string) {
	var positionErr *geolocation.PositionError
	if !errors.As(err, &positionErr) {
		return http.StatusInternalServerError, "internal server error"
	}
	switch positionErr.Code {
	case geolocation.CodePermissionDenied:
		return http.StatusForbidden, "location permission denied"
	case geolocation.CodePositionUnavailable:
		return http.StatusServiceUnavailable, "position information is unavailable"
	case geolocation.CodeTimeout:
		return http.StatusGatewayTimeout, "timed out waiting for a position fix"
	case geolocation.CodeUnsupported:
		return http.StatusNotImplemented, "location capability is not supported on this host"
	}
	return http.StatusInternalServerError, "internal server error"
}
