package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/location_logger/internal/models"
	"github.com/shenikar/location_logger/internal/service"
	"github.com/sirupsen/logrus"
)

const locationsCacheKey = "locations:all"

// PostgresLocationRepository - durable-вариант хранилища: таблица locations
// с автоинкрементным первичным ключом и серверным timestamp по умолчанию.
// Redis-клиент опционален и используется как best-effort кеш полного
// списка: любая ошибка кеша логируется и не влияет на основную операцию.
type PostgresLocationRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
	logger      *logrus.Logger
}

func NewPostgresLocationRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) service.LocationRepository {
	return &PostgresLocationRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// List возвращает все локации от новых к старым
func (r *PostgresLocationRepository) List(ctx context.Context) ([]*models.Location, error) {
	if cached := r.listFromCache(ctx); cached != nil {
		return cached, nil
	}

	query := `
		SELECT id, name, latitude, longitude, accuracy, created_at
		FROM locations
		ORDER BY created_at DESC, id DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := make([]*models.Location, 0)
	for rows.Next() {
		location := &models.Location{}
		err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.Latitude,
			&location.Longitude,
			&location.Accuracy,
			&location.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}

	r.setListCache(ctx, locations)
	return locations, nil
}

// GetByID возвращает локацию по id
func (r *PostgresLocationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	location := &models.Location{}
	query := `
		SELECT id, name, latitude, longitude, accuracy, created_at
		FROM locations
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&location.ID,
		&location.Name,
		&location.Latitude,
		&location.Longitude,
		&location.Accuracy,
		&location.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location by id: %w", err)
	}
	return location, nil
}

// Create сохраняет локацию; присвоенные базой id и timestamp возвращаются
// тем же запросом через RETURNING, без отдельной выборки. NULL в accuracy
// означает, что источник точность не сообщил.
func (r *PostgresLocationRepository) Create(ctx context.Context, location *models.Location) error {
	query := `
		INSERT INTO locations (name, latitude, longitude, accuracy)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		location.Name,
		location.Latitude,
		location.Longitude,
		location.Accuracy,
	).Scan(&location.ID, &location.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}

	r.invalidateListCache(ctx)
	return nil
}

// Delete удаляет локацию; результат определяется числом затронутых строк
func (r *PostgresLocationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete location: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return false, nil
	}

	r.invalidateListCache(ctx)
	return true, nil
}

// DeleteAll удаляет все локации одним запросом
func (r *PostgresLocationRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM locations;`); err != nil {
		return fmt.Errorf("failed to clear locations: %w", err)
	}

	r.invalidateListCache(ctx)
	return nil
}

// listFromCache пытается получить список из Redis; nil при промахе или ошибке
func (r *PostgresLocationRepository) listFromCache(ctx context.Context) []*models.Location {
	if r.redisClient == nil {
		return nil
	}

	val, err := r.redisClient.Get(ctx, locationsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WithError(err).Debug("Failed to get locations from cache")
		}
		return nil
	}

	locations := make([]*models.Location, 0)
	if err := json.Unmarshal(val, &locations); err != nil {
		r.logger.WithError(err).Debug("Failed to unmarshal locations from cache")
		return nil
	}
	return locations
}

// setListCache сохраняет список в Redis, ошибки кеша не всплывают
func (r *PostgresLocationRepository) setListCache(ctx context.Context, locations []*models.Location) {
	if r.redisClient == nil {
		return
	}

	val, err := json.Marshal(locations)
	if err != nil {
		r.logger.WithError(err).Debug("Failed to marshal locations for cache")
		return
	}
	if err := r.redisClient.Set(ctx, locationsCacheKey, val, r.cacheTTL).Err(); err != nil {
		r.logger.WithError(err).Debug("Failed to set locations in cache")
	}
}

// invalidateListCache удаляет кешированный список после любой мутации
func (r *PostgresLocationRepository) invalidateListCache(ctx context.Context) {
	if r.redisClient == nil {
		return
	}
	if err := r.redisClient.Del(ctx, locationsCacheKey).Err(); err != nil {
		r.logger.WithError(err).Debug("Failed to invalidate locations cache")
	}
}
