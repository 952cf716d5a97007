package memory

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

type expenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	expense.ID = uuid.New()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = r.db.now()
	}

	stored := *expense
	stored.Trip = nil
	r.db.expenses[expense.ID] = stored
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	e, ok := r.db.expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	return &e, nil
}

func (r *expenseRepository) List(ctx context.Context) ([]*domain.Expense, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	expenses := make([]*domain.Expense, 0, len(r.db.expenses))
	for _, e := range r.db.expenses {
		e := e
		expenses = append(expenses, &e)
	}
	sortByCreated(expenses, func(e *domain.Expense) time.Time { return e.CreatedAt })
	return expenses, nil
}
