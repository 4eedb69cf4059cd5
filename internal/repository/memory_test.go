package repository

import (
	"context"
	"testing"

	"github.com/shenikar/location_logger/internal/models"
	"github.com/shenikar/location_logger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocation(name string, lat, lon float64, accuracy *float64) *models.Location {
	return &models.Location{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Accuracy:  accuracy,
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}

func TestMemoryCreate_AssignsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryLocationRepository()
	ctx := context.Background()

	home := newLocation("Home", 12.97, 77.59, nil)
	require.NoError(t, repo.Create(ctx, home))

	assert.Equal(t, int64(1), home.ID)
	assert.False(t, home.Timestamp.IsZero())
	assert.Nil(t, home.Accuracy)

	work := newLocation("Work", 12.93, 77.61, float64Ptr(15.0))
	require.NoError(t, repo.Create(ctx, work))
	assert.Equal(t, int64(2), work.ID)
}

func TestMemoryCreate_IDsAreMonotonic(t *testing.T) {
	repo := NewMemoryLocationRepository()
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		location := newLocation("Point", 1.0, 2.0, nil)
		require.NoError(t, repo.Create(ctx, location))
		assert.Equal(t, int64(i+1), location.ID)
		assert.False(t, seen[location.ID], "id must never repeat")
		seen[location.ID] = true
	}
}

func TestMemoryList_NewestFirst(t *testing.T) {
	repo := NewMemoryLocationRepository()
	ctx := context.Background()

	first := newLocation("First", 1.0, 1.0, nil)
	second := newLocation("Second", 2.0, 2.0, nil)
	third := newLocation("Third", 3.0, 3.0, nil)
	for _, location := range []*models.Location{first, second, third} {
		require.NoError(t, repo.Create(ctx, location))
	}

	locations, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 3)

	// Последняя созданная запись идет первой
	assert.Equal(t, third.ID, locations[0].ID)
	assert.Equal(t, second.ID, locations[1].ID)
	assert.Equal(t, first.ID, locations[2].ID)
}

func TestMemoryList_Empty(t *testing.T) {
	repo := NewMemoryLocationRepository()

	locations, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestMemoryGetByID_NotFoundAfterDelete(t *testing.T) {
	repo := NewMemoryLocationRepository()
	ctx := context.Background()

	location := newLocation("Cafe", 55.75, 37.61, nil)
	require.NoError(t, repo.Create(ctx, location))

	deleted, err := repo.Delete(ctx, location.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, location.ID)
	assert.ErrorIs(t, err, service.ErrLocationNotFound)
}

func TestMemoryDelete_UnknownIDReturnsFalse(t *testing.T) {
	repo := NewMemoryLocationRepository()
	ctx := context.Background()

	location := newLocation("Cafe", 55.75, 37.61, nil)
	require.NoError(t, repo.Create(ctx, location))

	deleted, err := repo.Delete(ctx, 999)
	require.NoError(t, err)
	assert.False(t, deleted)

	// Коллекция не изменилась
	locations, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, 1)
}

func TestMemoryDeleteAll_LeavesEmptyCollection(t *testing.T) {
	repo := NewMemoryLocationRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newLocation("Point", 1.0, 2.0, nil)))
	}

	require.NoError(t, repo.DeleteAll(ctx))

	locations, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, locations)

	// Счетчик id не сбрасывается очисткой
	next := newLocation("After clear", 1.0, 2.0, nil)
	require.NoError(t, repo.Create(ctx, next))
	assert.Equal(t, int64(6), next.ID)
}

func TestMemoryAccuracy_AbsentDistinctFromZero(t *testing.T) {
	repo := NewMemoryLocationRepository()
	ctx := context.Background()

	withoutAccuracy := newLocation("No accuracy", 1.0, 2.0, nil)
	withZeroAccuracy := newLocation("Zero accuracy", 1.0, 2.0, float64Ptr(0))
	require.NoError(t, repo.Create(ctx, withoutAccuracy))
	require.NoError(t, repo.Create(ctx, withZeroAccuracy))

	got, err := repo.GetByID(ctx, withoutAccuracy.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Accuracy)

	got, err = repo.GetByID(ctx, withZeroAccuracy.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Accuracy)
	assert.Equal(t, 0.0, *got.Accuracy)
}

func TestMemoryStore_CreateListDeleteClearScenario(t *testing.T) {
	repo := NewMemoryLocationRepository()
	ctx := context.Background()

	home := newLocation("Home", 12.97, 77.59, nil)
	require.NoError(t, repo.Create(ctx, home))
	assert.Equal(t, int64(1), home.ID)
	assert.Nil(t, home.Accuracy)
	assert.False(t, home.Timestamp.IsZero())

	work := newLocation("Work", 12.93, 77.61, float64Ptr(15.0))
	require.NoError(t, repo.Create(ctx, work))
	assert.Equal(t, int64(2), work.ID)

	locations, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Work", locations[0].Name)
	assert.Equal(t, "Home", locations[1].Name)

	deleted, err := repo.Delete(ctx, home.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	locations, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, int64(2), locations[0].ID)

	require.NoError(t, repo.DeleteAll(ctx))
	locations, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestMemoryStore_RecordsAreIsolatedCopies(t *testing.T) {
	repo := NewMemoryLocationRepository()
	ctx := context.Background()

	location := newLocation("Original", 1.0, 2.0, nil)
	require.NoError(t, repo.Create(ctx, location))

	// Изменение модели у вызывающего не затрагивает хранимую запись
	location.Name = "Mutated"

	got, err := repo.GetByID(ctx, location.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Name)
}
