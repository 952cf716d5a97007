package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VehicleStatus - состояние транспортного средства
type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "Available"
	VehicleOnTrip    VehicleStatus = "On Trip"
	VehicleInShop    VehicleStatus = "In Shop"
	VehicleIdle      VehicleStatus = "Idle"
)

// IsValid проверяет, что статус известен
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleAvailable, VehicleOnTrip, VehicleInShop, VehicleIdle:
		return true
	}
	return false
}

// Dispatch: Available -> On Trip
func (s VehicleStatus) Dispatch() (VehicleStatus, error) {
	if s != VehicleAvailable {
		return s, fmt.Errorf("%w: vehicle is %s", ErrVehicleNotAvailable, s)
	}
	return VehicleOnTrip, nil
}

// Release вызывается при завершении или отмене активного рейса.
// Открытые заявки на ремонт имеют приоритет: машина уходит в сервис.
func (s VehicleStatus) Release(openLogs int) (VehicleStatus, error) {
	if s != VehicleOnTrip && s != VehicleInShop {
		return s, fmt.Errorf("%w: cannot release vehicle in status %s", ErrInvalidVehicleStatus, s)
	}
	if openLogs > 0 {
		return VehicleInShop, nil
	}
	return VehicleAvailable, nil
}

// SendToShop: любой статус -> In Shop
func (s VehicleStatus) SendToShop() (VehicleStatus, error) {
	return VehicleInShop, nil
}

// ReturnFromShop вызывается после закрытия заявки на ремонт.
// Машина остается в сервисе, пока есть открытые заявки.
func (s VehicleStatus) ReturnFromShop(openLogs int, onActiveTrip bool) (VehicleStatus, error) {
	if s != VehicleInShop {
		return s, nil
	}
	if openLogs > 0 {
		return VehicleInShop, nil
	}
	if onActiveTrip {
		return VehicleOnTrip, nil
	}
	return VehicleAvailable, nil
}

// SetManual обрабатывает ручное переключение Available <-> Idle
func (s VehicleStatus) SetManual(target VehicleStatus) (VehicleStatus, error) {
	if target != VehicleAvailable && target != VehicleIdle {
		return s, fmt.Errorf("%w: status %q cannot be set manually", ErrInvalidVehicleStatus, target)
	}
	if s == target {
		return s, nil
	}
	if s != VehicleAvailable && s != VehicleIdle {
		return s, fmt.Errorf("%w: vehicle is %s", ErrInvalidVehicleStatus, s)
	}
	return target, nil
}

// Vehicle - транспортное средство автопарка
type Vehicle struct {
	ID                  uuid.UUID     `json:"id"`
	Model               string        `json:"model"`
	Plate               string        `json:"plate"`
	Type                string        `json:"type"`
	Capacity            float64       `json:"capacity"` // кг
	Odometer            float64       `json:"odometer"` // км
	AcquisitionCost     float64       `json:"acquisitionCost"`
	Status              VehicleStatus `json:"status"`
	LastServiceOdometer float64       `json:"lastServiceOdometer"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// NormalizePlate нормализует номер (обрезает пробелы, приводит к верхнему регистру)
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// Validate проверяет корректность данных автомобиля
func (v *Vehicle) Validate() error {
	v.Plate = NormalizePlate(v.Plate)
	if v.Plate == "" || len(v.Plate) > 20 {
		return ErrInvalidPlate
	}
	if strings.TrimSpace(v.Model) == "" {
		return NewValidationError("model", "required", "model is required")
	}
	if v.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if v.Odometer < 0 || v.AcquisitionCost < 0 || v.LastServiceOdometer < 0 {
		return ErrInvalidVehicleData
	}
	if v.Status == "" {
		v.Status = VehicleAvailable
	}
	if !v.Status.IsValid() {
		return ErrInvalidVehicleData
	}
	return nil
}

// IsDispatchable - машина может быть назначена на новый рейс
func (v *Vehicle) IsDispatchable() bool {
	return v.Status == VehicleAvailable
}
