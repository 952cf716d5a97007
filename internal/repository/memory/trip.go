package memory

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

type tripRepository struct {
	db *DB
}

func NewTripRepository(db *DB) repository.TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	trip.ID = uuid.New()
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = r.db.now()
	}
	trip.UpdatedAt = r.db.now()

	stored := *trip
	stored.Vehicle, stored.Driver = nil, nil
	r.db.trips[trip.ID] = stored
	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	t, ok := r.db.trips[id]
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	return &t, nil
}

func (r *tripRepository) List(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	trips := make([]*domain.Trip, 0, len(r.db.trips))
	for _, t := range r.db.trips {
		if !matchTrip(t, filter) {
			continue
		}
		t := t
		trips = append(trips, &t)
	}
	sortByCreated(trips, func(t *domain.Trip) time.Time { return t.CreatedAt })
	return trips, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.trips[trip.ID]
	if !ok {
		return domain.ErrTripNotFound
	}

	trip.CreatedAt = existing.CreatedAt
	trip.UpdatedAt = r.db.now()

	stored := *trip
	stored.Vehicle, stored.Driver = nil, nil
	r.db.trips[trip.ID] = stored
	return nil
}

func matchTrip(t domain.Trip, filter repository.TripFilter) bool {
	if filter.VehicleID != nil && t.VehicleID != *filter.VehicleID {
		return false
	}
	if filter.DriverID != nil && t.DriverID != *filter.DriverID {
		return false
	}
	if len(filter.Statuses) == 0 {
		return true
	}
	for _, s := range filter.Statuses {
		if t.Status == s {
			return true
		}
	}
	return false
}
