package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tripColumns = `id, vehicle_id, driver_id, origin, destination, cargo_weight, fuel_cost, status,
	final_odometer, created_at, updated_at, dispatched_at, completed_at, cancelled_at`

type tripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) repository.TripRepository {
	return &tripRepository{db: db}
}

func scanTrip(row pgx.Row) (*domain.Trip, error) {
	trip := &domain.Trip{}
	err := row.Scan(
		&trip.ID,
		&trip.VehicleID,
		&trip.DriverID,
		&trip.Origin,
		&trip.Destination,
		&trip.CargoWeight,
		&trip.FuelCost,
		&trip.Status,
		&trip.FinalOdometer,
		&trip.CreatedAt,
		&trip.UpdatedAt,
		&trip.DispatchedAt,
		&trip.CompletedAt,
		&trip.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return trip, nil
}

func (r *tripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	trip.ID = uuid.New()
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now()
	}
	trip.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		trip.ID,
		trip.VehicleID,
		trip.DriverID,
		trip.Origin,
		trip.Destination,
		trip.CargoWeight,
		trip.FuelCost,
		trip.Status,
		trip.FinalOdometer,
		trip.CreatedAt,
		trip.UpdatedAt,
		trip.DispatchedAt,
		trip.CompletedAt,
		trip.CancelledAt,
	)
	return err
}

func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (r *tripRepository) List(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.VehicleID != nil {
		args = append(args, *filter.VehicleID)
		conditions = append(conditions, fmt.Sprintf("vehicle_id = $%d", len(args)))
	}
	if filter.DriverID != nil {
		args = append(args, *filter.DriverID)
		conditions = append(conditions, fmt.Sprintf("driver_id = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	query := `SELECT ` + tripColumns + ` FROM trips`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

func (r *tripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET vehicle_id = $2, driver_id = $3, origin = $4, destination = $5, cargo_weight = $6, fuel_cost = $7,
			status = $8, final_odometer = $9, updated_at = $10, dispatched_at = $11, completed_at = $12,
			cancelled_at = $13
		WHERE id = $1
	`

	trip.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		trip.ID,
		trip.VehicleID,
		trip.DriverID,
		trip.Origin,
		trip.Destination,
		trip.CargoWeight,
		trip.FuelCost,
		trip.Status,
		trip.FinalOdometer,
		trip.UpdatedAt,
		trip.DispatchedAt,
		trip.CompletedAt,
		trip.CancelledAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrTripNotFound
	}

	return nil
}
