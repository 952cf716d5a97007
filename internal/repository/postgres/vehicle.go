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

const vehicleColumns = `id, model, plate, type, capacity, odometer, acquisition_cost, status,
	last_service_odometer, created_at, updated_at`

type vehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	err := row.Scan(
		&vehicle.ID,
		&vehicle.Model,
		&vehicle.Plate,
		&vehicle.Type,
		&vehicle.Capacity,
		&vehicle.Odometer,
		&vehicle.AcquisitionCost,
		&vehicle.Status,
		&vehicle.LastServiceOdometer,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	vehicle.ID = uuid.New()
	vehicle.Plate = domain.NormalizePlate(vehicle.Plate)
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.Model,
		vehicle.Plate,
		vehicle.Type,
		vehicle.Capacity,
		vehicle.Odometer,
		vehicle.AcquisitionCost,
		vehicle.Status,
		vehicle.LastServiceOdometer,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVehicleAlreadyExists
		}
		return err
	}

	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	vehicle, err := scanVehicle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE plate = $1`

	vehicle, err := scanVehicle(r.db.QueryRow(ctx, query, domain.NormalizePlate(plate)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (r *vehicleRepository) List(ctx context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0)
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, rows.Err()
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET model = $2, plate = $3, type = $4, capacity = $5, odometer = $6, acquisition_cost = $7,
			status = $8, last_service_odometer = $9, updated_at = $10
		WHERE id = $1
	`

	vehicle.Plate = domain.NormalizePlate(vehicle.Plate)
	vehicle.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.Model,
		vehicle.Plate,
		vehicle.Type,
		vehicle.Capacity,
		vehicle.Odometer,
		vehicle.AcquisitionCost,
		vehicle.Status,
		vehicle.LastServiceOdometer,
		vehicle.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVehicleAlreadyExists
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}
