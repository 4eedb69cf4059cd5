package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/location_logger/internal/models"
	"github.com/shenikar/location_logger/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestLocationService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestLocationService(t *testing.T) (*locationService, *mocks.MockLocationRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockLocationRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewLocationService(repoMock, logger)
	return service.(*locationService), repoMock
}

func TestListLocations_Success(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()
	expected := []*models.Location{
		{ID: 2, Name: "Work", Latitude: 12.93, Longitude: 77.61, Timestamp: time.Now()},
		{ID: 1, Name: "Home", Latitude: 12.97, Longitude: 77.59, Timestamp: time.Now().Add(-time.Minute)},
	}

	repoMock.EXPECT().
		List(ctx).
		Return(expected, nil).
		Times(1)

	locations, err := service.ListLocations(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, locations)
}

func TestListLocations_RepositoryError(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()
	repoError := errors.New("connection refused")

	repoMock.EXPECT().
		List(ctx).
		Return(nil, repoError).
		Times(1)

	locations, err := service.ListLocations(ctx)

	require.Error(t, err)
	assert.Nil(t, locations)
	assert.ErrorIs(t, err, repoError)
}

func TestGetLocation_Success(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()
	expected := &models.Location{ID: 1, Name: "Home", Latitude: 12.97, Longitude: 77.59}

	repoMock.EXPECT().
		GetByID(ctx, int64(1)).
		Return(expected, nil).
		Times(1)

	location, err := service.GetLocation(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, expected, location)
}

func TestGetLocation_NotFoundPassesThrough(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		GetByID(ctx, int64(42)).
		Return(nil, ErrLocationNotFound).
		Times(1)

	location, err := service.GetLocation(ctx, 42)

	assert.Nil(t, location)
	// not-found не превращается в общий сбой хранилища
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestCreateLocation_Success(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()
	location := &models.Location{Name: "Home", Latitude: 12.97, Longitude: 77.59}

	repoMock.EXPECT().
		Create(ctx, location).
		DoAndReturn(func(_ context.Context, loc *models.Location) error {
			loc.ID = 1
			loc.Timestamp = time.Now().UTC()
			return nil
		}).
		Times(1)

	err := service.CreateLocation(ctx, location)

	require.NoError(t, err)
	assert.Equal(t, int64(1), location.ID)
	assert.False(t, location.Timestamp.IsZero())
}

func TestCreateLocation_RepositoryError(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()
	location := &models.Location{Name: "Home", Latitude: 12.97, Longitude: 77.59}
	repoError := errors.New("insert failed")

	repoMock.EXPECT().
		Create(ctx, location).
		Return(repoError).
		Times(1)

	err := service.CreateLocation(ctx, location)

	require.Error(t, err)
	assert.ErrorIs(t, err, repoError)
}

func TestDeleteLocation_Success(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		Delete(ctx, int64(1)).
		Return(true, nil).
		Times(1)

	err := service.DeleteLocation(ctx, 1)

	require.NoError(t, err)
}

func TestDeleteLocation_NotFound(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		Delete(ctx, int64(42)).
		Return(false, nil).
		Times(1)

	err := service.DeleteLocation(ctx, 42)

	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestDeleteLocation_RepositoryError(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()
	repoError := errors.New("delete failed")

	repoMock.EXPECT().
		Delete(ctx, int64(1)).
		Return(false, repoError).
		Times(1)

	err := service.DeleteLocation(ctx, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, repoError)
	assert.NotErrorIs(t, err, ErrLocationNotFound)
}

func TestClearLocations_Success(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		DeleteAll(ctx).
		Return(nil).
		Times(1)

	err := service.ClearLocations(ctx)

	require.NoError(t, err)
}

func TestClearLocations_RepositoryError(t *testing.T) {
	service, repoMock := newTestLocationService(t)
	ctx := context.Background()
	repoError := errors.New("truncate failed")

	repoMock.EXPECT().
		DeleteAll(ctx).
		Return(repoError).
		Times(1)

	err := service.ClearLocations(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, repoError)
}
