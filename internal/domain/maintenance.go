package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaintenanceStatus - статус заявки на ремонт
type MaintenanceStatus string

const (
	MaintenanceNew        MaintenanceStatus = "New"
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceDone       MaintenanceStatus = "Done"
)

// IsValid проверяет, что статус известен
func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceNew, MaintenanceInProgress, MaintenanceDone:
		return true
	}
	return false
}

// IsOpen - заявка не закрыта
func (s MaintenanceStatus) IsOpen() bool {
	return s != MaintenanceDone
}

// Advance переводит заявку New -> In Progress -> Done
func (s MaintenanceStatus) Advance(target MaintenanceStatus) (MaintenanceStatus, error) {
	if !target.IsValid() {
		return s, ErrInvalidMaintenanceData
	}
	switch {
	case s == MaintenanceDone:
		return s, fmt.Errorf("%w: log is already resolved", ErrInvalidMaintenanceTransition)
	case s == target:
		return s, nil
	case s == MaintenanceInProgress && target == MaintenanceNew:
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidMaintenanceTransition, s, target)
	}
	return target, nil
}

// MaintenanceLog - заявка на ремонт
type MaintenanceLog struct {
	ID         uuid.UUID         `json:"id"`
	VehicleID  uuid.UUID         `json:"vehicleId"`
	Issue      string            `json:"issue"`
	Cost       float64           `json:"cost"`
	Status     MaintenanceStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	ResolvedAt *time.Time        `json:"resolvedAt,omitempty"`

	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

// Validate проверяет корректность заявки
func (m *MaintenanceLog) Validate() error {
	if m.VehicleID == uuid.Nil {
		return NewValidationError("vehicleId", "required", "vehicle is required")
	}
	if strings.TrimSpace(m.Issue) == "" {
		return NewValidationError("issue", "required", "issue is required")
	}
	if m.Cost < 0 {
		return NewValidationError("cost", "gte", "cost cannot be negative")
	}
	if m.Status == "" {
		m.Status = MaintenanceNew
	}
	if !m.Status.IsValid() {
		return ErrInvalidMaintenanceData
	}
	return nil
}
