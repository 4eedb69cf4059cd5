package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shenikar/location_logger/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrLocationNotFound возвращается при обращении к несуществующей локации.
// Хендлер отличает его от сбоя хранилища и отвечает 404, а не 500.
var ErrLocationNotFound = errors.New("location not found")

// LocationRepository определяет контракт хранилища локаций. Два варианта
// реализации - in-memory (volatile) и PostgreSQL (durable) - выбираются
// один раз при старте процесса и ведут себя одинаково: List отдает записи
// от новых к старым, Create присваивает id и timestamp на переданной
// модели, Delete сообщает, была ли запись.
type LocationRepository interface {
	List(ctx context.Context) ([]*models.Location, error)
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) error
}

// LocationService определяет контракт бизнес-логики журнала локаций
type LocationService interface {
	ListLocations(ctx context.Context) ([]*models.Location, error)
	GetLocation(ctx context.Context, id int64) (*models.Location, error)
	CreateLocation(ctx context.Context, location *models.Location) error
	DeleteLocation(ctx context.Context, id int64) error
	ClearLocations(ctx context.Context) error
}

type locationService struct {
	repo   LocationRepository
	logger *logrus.Logger
}

func NewLocationService(repo LocationRepository, logger *logrus.Logger) LocationService {
	return &locationService{
		repo:   repo,
		logger: logger,
	}
}

// ListLocations возвращает все сохраненные локации от новых к старым
func (s *locationService) ListLocations(ctx context.Context) ([]*models.Location, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "ListLocations",
	})

	locations, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list locations from repository")
		return nil, fmt.Errorf("service: could not list locations: %w", err)
	}

	log.WithField("count", len(locations)).Debug("Locations listed successfully")
	return locations, nil
}

// GetLocation возвращает локацию по ID
func (s *locationService) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "location",
		"method":      "GetLocation",
		"location_id": id,
	})

	location, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			log.Debug("Location not found")
			return nil, err
		}
		log.WithError(err).Error("Failed to get location from repository")
		return nil, fmt.Errorf("service: could not get location: %w", err)
	}

	return location, nil
}

// CreateLocation сохраняет новую локацию. Валидация формы запроса выполнена
// выше, на уровне хендлера; id и timestamp присваивает хранилище.
func (s *locationService) CreateLocation(ctx context.Context, location *models.Location) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "CreateLocation",
		"name":    location.Name,
	})
	log.Info("Attempting to save a new location")

	if err := s.repo.Create(ctx, location); err != nil {
		log.WithError(err).Error("Failed to create location in repository")
		return fmt.Errorf("service: could not create location: %w", err)
	}

	log.WithField("location_id", location.ID).Info("Location saved successfully")
	return nil
}

// DeleteLocation удаляет локацию по ID. Удаление несуществующего ID
// сообщается как ErrLocationNotFound, а не как сбой хранилища.
func (s *locationService) DeleteLocation(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "location",
		"method":      "DeleteLocation",
		"location_id": id,
	})
	log.Info("Attempting to delete location")

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to delete location in repository")
		return fmt.Errorf("service: could not delete location: %w", err)
	}
	if !deleted {
		log.Debug("Location not found for delete")
		return ErrLocationNotFound
	}

	log.Info("Location deleted successfully")
	return nil
}

// ClearLocations безусловно удаляет все сохраненные локации
func (s *locationService) ClearLocations(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "ClearLocations",
	})
	log.Info("Attempting to clear all locations")

	if err := s.repo.DeleteAll(ctx); err != nil {
		log.WithError(err).Error("Failed to clear locations in repository")
		return fmt.Errorf("service: could not clear locations: %w", err)
	}

	log.Info("All locations cleared")
	return nil
}
