package memory

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

type maintenanceRepository struct {
	db *DB
}

func NewMaintenanceRepository(db *DB) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Create(ctx context.Context, log *domain.MaintenanceLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	log.ID = uuid.New()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = r.db.now()
	}
	log.UpdatedAt = r.db.now()

	stored := *log
	stored.Vehicle = nil
	r.db.maintenance[log.ID] = stored
	return nil
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.maintenance[id]
	if !ok {
		return nil, domain.ErrMaintenanceNotFound
	}
	return &m, nil
}

func (r *maintenanceRepository) List(ctx context.Context, filter repository.MaintenanceFilter) ([]*domain.MaintenanceLog, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	logs := make([]*domain.MaintenanceLog, 0, len(r.db.maintenance))
	for _, m := range r.db.maintenance {
		if filter.VehicleID != nil && m.VehicleID != *filter.VehicleID {
			continue
		}
		if filter.OpenOnly && !m.Status.IsOpen() {
			continue
		}
		m := m
		logs = append(logs, &m)
	}
	sortByCreated(logs, func(m *domain.MaintenanceLog) time.Time { return m.CreatedAt })
	return logs, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, log *domain.MaintenanceLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.maintenance[log.ID]
	if !ok {
		return domain.ErrMaintenanceNotFound
	}

	log.CreatedAt = existing.CreatedAt
	log.UpdatedAt = r.db.now()

	stored := *log
	stored.Vehicle = nil
	r.db.maintenance[log.ID] = stored
	return nil
}
