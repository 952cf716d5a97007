package memory

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

type vehicleRepository struct {
	db *DB
}

func NewVehicleRepository(db *DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	vehicle.Plate = domain.NormalizePlate(vehicle.Plate)
	if r.plateTaken(vehicle.Plate, uuid.Nil) {
		return domain.ErrVehicleAlreadyExists
	}

	vehicle.ID = uuid.New()
	vehicle.CreatedAt = r.db.now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	r.db.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	v, ok := r.db.vehicles[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	return &v, nil
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	plate = domain.NormalizePlate(plate)
	for _, v := range r.db.vehicles {
		if v.Plate == plate {
			return &v, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

func (r *vehicleRepository) List(ctx context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	vehicles := make([]*domain.Vehicle, 0, len(r.db.vehicles))
	for _, v := range r.db.vehicles {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		v := v
		vehicles = append(vehicles, &v)
	}
	sortByCreated(vehicles, func(v *domain.Vehicle) time.Time { return v.CreatedAt })
	return vehicles, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.vehicles[vehicle.ID]
	if !ok {
		return domain.ErrVehicleNotFound
	}

	vehicle.Plate = domain.NormalizePlate(vehicle.Plate)
	if r.plateTaken(vehicle.Plate, vehicle.ID) {
		return domain.ErrVehicleAlreadyExists
	}

	vehicle.CreatedAt = existing.CreatedAt
	vehicle.UpdatedAt = r.db.now()
	r.db.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.vehicles[id]; !ok {
		return domain.ErrVehicleNotFound
	}
	delete(r.db.vehicles, id)
	return nil
}

// plateTaken вызывается под блокировкой
func (r *vehicleRepository) plateTaken(plate string, except uuid.UUID) bool {
	for id, v := range r.db.vehicles {
		if id != except && v.Plate == plate {
			return true
		}
	}
	return false
}
