package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// uniqueViolation - код ошибки PostgreSQL для нарушения UNIQUE
const uniqueViolation = "23505"

// Schema возвращает DDL хранилища
func Schema() string {
	return schema
}

// Migrate применяет схему; повторный запуск безопасен
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// NewStore собирает репозитории поверх пула подключений
func NewStore(db *pgxpool.Pool) *repository.Store {
	return &repository.Store{
		Users:       NewUserRepository(db),
		Vehicles:    NewVehicleRepository(db),
		Drivers:     NewDriverRepository(db),
		Trips:       NewTripRepository(db),
		Maintenance: NewMaintenanceRepository(db),
		Expenses:    NewExpenseRepository(db),
		Sessions:    NewSessionRepository(db),
		Ping:        db.Ping,
		Close:       db.Close,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
