package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseStatus - статус расходной записи
type ExpenseStatus string

const (
	ExpenseDraft   ExpenseStatus = "Draft"
	ExpensePending ExpenseStatus = "Pending"
	ExpenseDone    ExpenseStatus = "Done"
)

// IsValid проверяет, что статус известен
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseDraft, ExpensePending, ExpenseDone:
		return true
	}
	return false
}

// Expense - расходы по рейсу
type Expense struct {
	ID          uuid.UUID     `json:"id"`
	TripID      uuid.UUID     `json:"tripId"`
	DriverName  string        `json:"driver,omitempty"`
	FuelExpense float64       `json:"fuelExpense"`
	MiscExpense float64       `json:"miscExpense"`
	Distance    float64       `json:"distance"` // км
	Status      ExpenseStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`

	Trip *Trip `json:"trip,omitempty"`
}

// Total - сумма всех расходов записи
func (e *Expense) Total() float64 {
	return e.FuelExpense + e.MiscExpense
}

// Validate проверяет корректность расходов
func (e *Expense) Validate() error {
	if e.TripID == uuid.Nil {
		return NewValidationError("tripId", "required", "trip is required")
	}
	if e.FuelExpense < 0 {
		return NewValidationError("fuelExpense", "gte", "fuel expense cannot be negative")
	}
	if e.MiscExpense < 0 {
		return NewValidationError("miscExpense", "gte", "misc expense cannot be negative")
	}
	if e.Distance < 0 {
		return NewValidationError("distance", "gte", "distance cannot be negative")
	}
	if e.Status == "" {
		e.Status = ExpensePending
	}
	if !e.Status.IsValid() {
		return ErrInvalidExpenseData
	}
	return nil
}
