package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

// CreateExpenseRequest - расходы по рейсу
type CreateExpenseRequest struct {
	TripID      uuid.UUID            `json:"tripId" validate:"required"`
	DriverName  string               `json:"driver,omitempty"`
	FuelExpense float64              `json:"fuelExpense" validate:"gte=0"`
	MiscExpense float64              `json:"miscExpense" validate:"gte=0"`
	Distance    float64              `json:"distance" validate:"gte=0"`
	Status      domain.ExpenseStatus `json:"status,omitempty"`
}

// CreateExpense сохраняет расходы; рейс должен существовать
func (s *Service) CreateExpense(ctx context.Context, req *CreateExpenseRequest) (*domain.Expense, error) {
	expense := &domain.Expense{
		TripID:      req.TripID,
		DriverName:  req.DriverName,
		FuelExpense: req.FuelExpense,
		MiscExpense: req.MiscExpense,
		Distance:    req.Distance,
		Status:      req.Status,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if expense.DriverName == "" {
		if driver, err := s.lookupDriver(ctx, trip.DriverID); err == nil && driver != nil {
			expense.DriverName = driver.Name
		}
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		s.logger.Error("Failed to create expense", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("Expense recorded", map[string]interface{}{
		"expense_id": expense.ID,
		"trip_id":    trip.ID,
		"total":      expense.Total(),
	})

	expense.Trip = trip
	return expense, nil
}

// GetExpense возвращает расходы с рейсом
func (s *Service) GetExpense(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Рейс мог быть удален: расходы отдаются без него
	trip, err := s.tripRepo.GetByID(ctx, expense.TripID)
	switch {
	case errors.Is(err, domain.ErrTripNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to get trip: %w", err)
	default:
		expense.Trip = trip
	}
	return expense, nil
}

// ListExpenses возвращает расходы с присоединенными рейсами
func (s *Service) ListExpenses(ctx context.Context) ([]*domain.Expense, error) {
	expenses, err := s.expenseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	trips, err := s.tripRepo.List(ctx, repository.TripFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	tripByID := make(map[uuid.UUID]*domain.Trip, len(trips))
	for _, t := range trips {
		tripByID[t.ID] = t
	}

	for _, e := range expenses {
		e.Trip = tripByID[e.TripID]
	}
	return expenses, nil
}
