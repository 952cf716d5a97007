package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DriverStatus - статус водителя, управляется вручную
type DriverStatus string

const (
	DriverOnDuty    DriverStatus = "On Duty"
	DriverOffDuty   DriverStatus = "Off Duty"
	DriverSuspended DriverStatus = "Suspended"
)

// IsValid проверяет, что статус известен
func (s DriverStatus) IsValid() bool {
	switch s {
	case DriverOnDuty, DriverOffDuty, DriverSuspended:
		return true
	}
	return false
}

// Классы водительских прав
const (
	LicenseLight = "Light"
	LicenseHeavy = "Heavy"
)

// Driver - водитель
type Driver struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	License        string       `json:"license"`
	LicenseExpiry  time.Time    `json:"licenseExpiry"`
	Type           string       `json:"type"`
	CompletionRate float64      `json:"completionRate"`
	SafetyScore    float64      `json:"safetyScore"`
	Complaints     int          `json:"complaints"`
	Status         DriverStatus `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// DefaultSafetyScore - стартовый рейтинг безопасности
const DefaultSafetyScore = 100

// NormalizeLicense нормализует номер удостоверения
func NormalizeLicense(license string) string {
	return strings.ToUpper(strings.TrimSpace(license))
}

// DaysUntilExpiry считает дни до окончания прав, округляя вверх
func (d *Driver) DaysUntilExpiry(now time.Time) int {
	return int(math.Ceil(d.LicenseExpiry.Sub(now).Hours() / 24))
}

// LicenseValid - срок действия прав строго в будущем
func (d *Driver) LicenseValid(now time.Time) bool {
	return d.LicenseExpiry.After(now)
}

// Validate проверяет корректность данных водителя
func (d *Driver) Validate() error {
	d.License = NormalizeLicense(d.License)
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("name", "required", "name is required")
	}
	if d.License == "" {
		return NewValidationError("license", "required", "license is required")
	}
	if d.LicenseExpiry.IsZero() {
		return NewValidationError("licenseExpiry", "required", "license expiry is required")
	}
	if d.CompletionRate < 0 || d.CompletionRate > 100 {
		return NewValidationError("completionRate", "range", "completion rate must be between 0 and 100")
	}
	if d.SafetyScore < 0 || d.SafetyScore > 100 {
		return NewValidationError("safetyScore", "range", "safety score must be between 0 and 100")
	}
	if d.Complaints < 0 {
		return NewValidationError("complaints", "gte", "complaints cannot be negative")
	}
	if d.Status == "" {
		d.Status = DriverOnDuty
	}
	if !d.Status.IsValid() {
		return ErrInvalidDriverStatus
	}
	return nil
}

// ChangeStatus меняет статус водителя; во время активного рейса запрещено
func (d *Driver) ChangeStatus(target DriverStatus, onActiveTrip bool) error {
	if !target.IsValid() {
		return ErrInvalidDriverStatus
	}
	if onActiveTrip {
		return ErrDriverOnTrip
	}
	d.Status = target
	return nil
}

// CheckAssignable проверяет, что водителя можно назначить на новый рейс
func (d *Driver) CheckAssignable(now time.Time) error {
	if d.Status != DriverOnDuty {
		return fmt.Errorf("%w: driver is %s", ErrDriverNotOnDuty, d.Status)
	}
	if !d.LicenseValid(now) {
		return ErrLicenseExpired
	}
	return nil
}
