package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TripStatus - состояние рейса
type TripStatus string

const (
	TripDraft      TripStatus = "Draft"
	TripDispatched TripStatus = "Dispatched"
	TripOnTrip     TripStatus = "On Trip"
	TripCompleted  TripStatus = "Completed"
	TripCancelled  TripStatus = "Cancelled"
)

// IsValid проверяет, что статус известен
func (s TripStatus) IsValid() bool {
	switch s {
	case TripDraft, TripDispatched, TripOnTrip, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// IsActive - рейс удерживает машину и водителя
func (s TripStatus) IsActive() bool {
	return s == TripDispatched || s == TripOnTrip
}

// IsTerminal - из статуса нет переходов
func (s TripStatus) IsTerminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// ActiveTripStatuses - статусы, в которых рейс удерживает ресурсы
func ActiveTripStatuses() []TripStatus {
	return []TripStatus{TripDispatched, TripOnTrip}
}

func invalidTripTransition(from, to TripStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTripTransition, from, to)
}

// Dispatch: Draft -> Dispatched
func (s TripStatus) Dispatch() (TripStatus, error) {
	if s != TripDraft {
		return s, invalidTripTransition(s, TripDispatched)
	}
	return TripDispatched, nil
}

// Start: Draft | Dispatched -> On Trip
func (s TripStatus) Start() (TripStatus, error) {
	if s != TripDraft && s != TripDispatched {
		return s, invalidTripTransition(s, TripOnTrip)
	}
	return TripOnTrip, nil
}

// Complete: On Trip -> Completed
func (s TripStatus) Complete() (TripStatus, error) {
	if s != TripOnTrip {
		return s, invalidTripTransition(s, TripCompleted)
	}
	return TripCompleted, nil
}

// Cancel: любой нетерминальный -> Cancelled
func (s TripStatus) Cancel() (TripStatus, error) {
	if s.IsTerminal() {
		return s, invalidTripTransition(s, TripCancelled)
	}
	return TripCancelled, nil
}

// Trip - рейс
type Trip struct {
	ID            uuid.UUID  `json:"id"`
	VehicleID     uuid.UUID  `json:"vehicleId"`
	DriverID      uuid.UUID  `json:"driverId"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	CargoWeight   float64    `json:"cargoWeight"`
	FuelCost      float64    `json:"fuelCost"`
	Status        TripStatus `json:"status"`
	FinalOdometer *float64   `json:"finalOdometer,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	DispatchedAt  *time.Time `json:"dispatchedAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Vehicle *Vehicle `json:"vehicle,omitempty"`
	Driver  *Driver  `json:"driver,omitempty"`
}

// Месяц рейса в формате YYYY-MM
func (t *Trip) Month() string {
	return t.CreatedAt.UTC().Format("2006-01")
}
