package memory

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

type driverRepository struct {
	db *DB
}

func NewDriverRepository(db *DB) repository.DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	driver.License = domain.NormalizeLicense(driver.License)
	if r.licenseTaken(driver.License, uuid.Nil) {
		return domain.ErrDriverAlreadyExists
	}

	driver.ID = uuid.New()
	driver.CreatedAt = r.db.now()
	driver.UpdatedAt = driver.CreatedAt
	r.db.drivers[driver.ID] = *driver
	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	d, ok := r.db.drivers[id]
	if !ok {
		return nil, domain.ErrDriverNotFound
	}
	return &d, nil
}

func (r *driverRepository) GetByLicense(ctx context.Context, license string) (*domain.Driver, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	license = domain.NormalizeLicense(license)
	for _, d := range r.db.drivers {
		if d.License == license {
			return &d, nil
		}
	}
	return nil, domain.ErrDriverNotFound
}

func (r *driverRepository) List(ctx context.Context) ([]*domain.Driver, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	drivers := make([]*domain.Driver, 0, len(r.db.drivers))
	for _, d := range r.db.drivers {
		d := d
		drivers = append(drivers, &d)
	}
	sortByCreated(drivers, func(d *domain.Driver) time.Time { return d.CreatedAt })
	return drivers, nil
}

func (r *driverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.drivers[driver.ID]
	if !ok {
		return domain.ErrDriverNotFound
	}

	driver.License = domain.NormalizeLicense(driver.License)
	if r.licenseTaken(driver.License, driver.ID) {
		return domain.ErrDriverAlreadyExists
	}

	driver.CreatedAt = existing.CreatedAt
	driver.UpdatedAt = r.db.now()
	r.db.drivers[driver.ID] = *driver
	return nil
}

func (r *driverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.drivers[id]; !ok {
		return domain.ErrDriverNotFound
	}
	delete(r.db.drivers, id)
	return nil
}

func (r *driverRepository) licenseTaken(license string, except uuid.UUID) bool {
	for id, d := range r.db.drivers {
		if id != except && d.License == license {
			return true
		}
	}
	return false
}
