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

const maintenanceColumns = `id, vehicle_id, issue, cost, status, created_at, updated_at, resolved_at`

type maintenanceRepository struct {
	db *pgxpool.Pool
}

func NewMaintenanceRepository(db *pgxpool.Pool) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func scanMaintenance(row pgx.Row) (*domain.MaintenanceLog, error) {
	log := &domain.MaintenanceLog{}
	err := row.Scan(
		&log.ID,
		&log.VehicleID,
		&log.Issue,
		&log.Cost,
		&log.Status,
		&log.CreatedAt,
		&log.UpdatedAt,
		&log.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (r *maintenanceRepository) Create(ctx context.Context, log *domain.MaintenanceLog) error {
	query := `
		INSERT INTO maintenance_logs (` + maintenanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	log.ID = uuid.New()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	log.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		log.ID,
		log.VehicleID,
		log.Issue,
		log.Cost,
		log.Status,
		log.CreatedAt,
		log.UpdatedAt,
		log.ResolvedAt,
	)
	return err
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_logs WHERE id = $1`

	log, err := scanMaintenance(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMaintenanceNotFound
		}
		return nil, err
	}
	return log, nil
}

func (r *maintenanceRepository) List(ctx context.Context, filter repository.MaintenanceFilter) ([]*domain.MaintenanceLog, error) {
	query := `
		SELECT ` + maintenanceColumns + `
		FROM maintenance_logs
		WHERE ($1::uuid IS NULL OR vehicle_id = $1)
			AND (NOT $2::boolean OR status <> $3)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, filter.VehicleID, filter.OpenOnly, string(domain.MaintenanceDone))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.MaintenanceLog, 0)
	for rows.Next() {
		log, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func (r *maintenanceRepository) Update(ctx context.Context, log *domain.MaintenanceLog) error {
	query := `
		UPDATE maintenance_logs
		SET vehicle_id = $2, issue = $3, cost = $4, status = $5, updated_at = $6, resolved_at = $7
		WHERE id = $1
	`

	log.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		log.ID,
		log.VehicleID,
		log.Issue,
		log.Cost,
		log.Status,
		log.UpdatedAt,
		log.ResolvedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrMaintenanceNotFound
	}

	return nil
}
