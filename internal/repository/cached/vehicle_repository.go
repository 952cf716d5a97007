package cached

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/metrics"
	"github.com/frontandrew/fleetflow/internal/pkg/redis"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

const vehicleCachePrefix = "vehicle:"

// VehicleRepository добавляет кэширование машин по ID
type VehicleRepository struct {
	repo   repository.VehicleRepository
	cache  Cache
	ttl    time.Duration
	logger logger.Logger
}

// NewVehicleRepository создает кэшируемый vehicle repository
func NewVehicleRepository(repo repository.VehicleRepository, cache Cache, ttl time.Duration, log logger.Logger) *VehicleRepository {
	return &VehicleRepository{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

func vehicleKey(id uuid.UUID) string {
	return vehicleCachePrefix + id.String()
}

// GetByID читает машину из кэша, при промахе из хранилища
func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	key := vehicleKey(id)

	var vehicle domain.Vehicle
	err := r.cache.GetJSON(ctx, key, &vehicle)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues("vehicle", "hit").Inc()
		return &vehicle, nil
	case errors.Is(err, redis.ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues("vehicle", "miss").Inc()
	default:
		// Ошибка кэша не должна ломать чтение
		metrics.CacheLookups.WithLabelValues("vehicle", "error").Inc()
		r.logger.Warn("Vehicle cache read failed", map[string]interface{}{
			"vehicle_id": id,
			"error":      err.Error(),
		})
	}

	found, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, key, found, r.ttl); err != nil {
		r.logger.Warn("Vehicle cache write failed", map[string]interface{}{
			"vehicle_id": id,
			"error":      err.Error(),
		})
	}

	return found, nil
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.repo.Create(ctx, vehicle)
}

// GetByPlate не кэшируется: используется только при проверке уникальности
func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return r.repo.GetByPlate(ctx, plate)
}

// List не кэшируется: статусы меняются при каждом переходе рейса
func (r *VehicleRepository) List(ctx context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, error) {
	return r.repo.List(ctx, filter)
}

// Update обновляет машину и инвалидирует кэш
func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.repo.Update(ctx, vehicle); err != nil {
		return err
	}
	r.invalidate(ctx, vehicle.ID)
	return nil
}

// Delete удаляет машину и инвалидирует кэш
func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *VehicleRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Del(ctx, vehicleKey(id)); err != nil {
		r.logger.Warn("Vehicle cache invalidation failed", map[string]interface{}{
			"vehicle_id": id,
			"error":      err.Error(),
		})
	}
}
