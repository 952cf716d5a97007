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

const expenseColumns = `id, trip_id, driver_name, fuel_expense, misc_expense, distance, status, created_at`

type expenseRepository struct {
	db *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	expense := &domain.Expense{}
	err := row.Scan(
		&expense.ID,
		&expense.TripID,
		&expense.DriverName,
		&expense.FuelExpense,
		&expense.MiscExpense,
		&expense.Distance,
		&expense.Status,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	expense.ID = uuid.New()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, query,
		expense.ID,
		expense.TripID,
		expense.DriverName,
		expense.FuelExpense,
		expense.MiscExpense,
		expense.Distance,
		expense.Status,
		expense.CreatedAt,
	)
	return err
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	expense, err := scanExpense(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (r *expenseRepository) List(ctx context.Context) ([]*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}
