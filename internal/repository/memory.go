package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shenikar/location_logger/internal/models"
	"github.com/shenikar/location_logger/internal/service"
)

// MemoryLocationRepository - volatile-вариант хранилища: map в памяти
// процесса, счетчик id начинается с 1 и монотонно растет до перезапуска.
// Потеря данных при рестарте ожидаема, этот вариант для работы без БД.
type MemoryLocationRepository struct {
	mu     sync.RWMutex
	byID   map[int64]*models.Location
	nextID int64
}

func NewMemoryLocationRepository() service.LocationRepository {
	return &MemoryLocationRepository{
		byID:   make(map[int64]*models.Location),
		nextID: 1,
	}
}

// List возвращает все локации от новых к старым
func (r *MemoryLocationRepository) List(_ context.Context) ([]*models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	locations := make([]*models.Location, 0, len(r.byID))
	for _, location := range r.byID {
		copied := *location
		locations = append(locations, &copied)
	}

	sort.Slice(locations, func(i, j int) bool {
		if !locations[i].Timestamp.Equal(locations[j].Timestamp) {
			return locations[i].Timestamp.After(locations[j].Timestamp)
		}
		return locations[i].ID > locations[j].ID
	})
	return locations, nil
}

// GetByID возвращает локацию по id
func (r *MemoryLocationRepository) GetByID(_ context.Context, id int64) (*models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	location, ok := r.byID[id]
	if !ok {
		return nil, service.ErrLocationNotFound
	}
	copied := *location
	return &copied, nil
}

// Create присваивает id и timestamp и сохраняет локацию. Хранится копия:
// запись принадлежит хранилищу, изменения модели у вызывающего на нее
// не влияют.
func (r *MemoryLocationRepository) Create(_ context.Context, location *models.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	location.ID = r.nextID
	r.nextID++
	location.Timestamp = time.Now().UTC()

	copied := *location
	r.byID[location.ID] = &copied
	return nil
}

// Delete удаляет локацию, сообщая, существовала ли она
func (r *MemoryLocationRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

// DeleteAll безусловно удаляет все локации. Счетчик id не сбрасывается:
// id не переиспользуются в течение жизни процесса.
func (r *MemoryLocationRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[int64]*models.Location)
	return nil
}
