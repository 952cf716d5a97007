package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const driverColumns = `id, name, license, license_expiry, type, completion_rate, safety_score, complaints,
	status, created_at, updated_at`

type driverRepository struct {
	db *pgxpool.Pool
}

func NewDriverRepository(db *pgxpool.Pool) repository.DriverRepository {
	return &driverRepository{db: db}
}

func scanDriver(row pgx.Row) (*domain.Driver, error) {
	driver := &domain.Driver{}
	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.License,
		&driver.LicenseExpiry,
		&driver.Type,
		&driver.CompletionRate,
		&driver.SafetyScore,
		&driver.Complaints,
		&driver.Status,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return driver, nil
}

func (r *driverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (` + driverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	driver.ID = uuid.New()
	driver.License = domain.NormalizeLicense(driver.License)
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt

	_, err := r.db.Exec(ctx, query,
		driver.ID,
		driver.Name,
		driver.License,
		driver.LicenseExpiry,
		driver.Type,
		driver.CompletionRate,
		driver.SafetyScore,
		driver.Complaints,
		driver.Status,
		driver.CreatedAt,
		driver.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDriverAlreadyExists
		}
		return err
	}

	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	driver, err := scanDriver(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, err
	}
	return driver, nil
}

func (r *driverRepository) GetByLicense(ctx context.Context, license string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE license = $1`

	driver, err := scanDriver(r.db.QueryRow(ctx, query, domain.NormalizeLicense(license)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, err
	}
	return driver, nil
}

func (r *driverRepository) List(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0)
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}

	return drivers, rows.Err()
}

func (r *driverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `
		UPDATE drivers
		SET name = $2, license = $3, license_expiry = $4, type = $5, completion_rate = $6,
			safety_score = $7, complaints = $8, status = $9, updated_at = $10
		WHERE id = $1
	`

	driver.License = domain.NormalizeLicense(driver.License)
	driver.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		driver.ID,
		driver.Name,
		driver.License,
		driver.LicenseExpiry,
		driver.Type,
		driver.CompletionRate,
		driver.SafetyScore,
		driver.Complaints,
		driver.Status,
		driver.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDriverAlreadyExists
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrDriverNotFound
	}

	return nil
}

func (r *driverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrDriverNotFound
	}

	return nil
}
