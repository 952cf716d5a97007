package mongo

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type expenseRepository struct {
	coll *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) repository.ExpenseRepository {
	return &expenseRepository{coll: db.Collection(expensesCollection)}
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	expense.ID = uuid.New()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}

	_, err := r.coll.InsertOne(ctx, fromExpense(expense))
	return err
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	var doc expenseDocument
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *expenseRepository) List(ctx context.Context) ([]*domain.Expense, error) {
	return findAll(ctx, r.coll, bson.M{}, (*expenseDocument).toDomain)
}
