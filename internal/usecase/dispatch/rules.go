// Package dispatch содержит правила допуска рейса и подбор машины под груз.
package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
)

// Candidate - предлагаемый рейс вместе с состоянием участников
type Candidate struct {
	Vehicle *domain.Vehicle // nil, если машина не найдена
	Driver  *domain.Driver  // nil, если водитель не найден

	// DriverActiveTrips - активные рейсы водителя, не считая проверяемого
	DriverActiveTrips int

	CargoWeight float64
	Origin      string
	Destination string
}

// Rejection - причина отказа для метрик
type Rejection string

const (
	RejectVehicleMissing     Rejection = "vehicle_missing"
	RejectVehicleUnavailable Rejection = "vehicle_unavailable"
	RejectDriverMissing      Rejection = "driver_missing"
	RejectDriverOffDuty      Rejection = "driver_not_on_duty"
	RejectLicenseExpired     Rejection = "license_expired"
	RejectDriverBusy         Rejection = "driver_busy"
	RejectCargoInvalid       Rejection = "cargo_invalid"
	RejectOverCapacity       Rejection = "over_capacity"
	RejectRouteMissing       Rejection = "route_missing"
)

// RuleError связывает доменную ошибку с причиной отказа
type RuleError struct {
	Reason Rejection
	Err    error
}

func (e *RuleError) Error() string { return e.Err.Error() }
func (e *RuleError) Unwrap() error { return e.Err }

func reject(reason Rejection, err error) error {
	return &RuleError{Reason: reason, Err: err}
}

// Validate проверяет правила по порядку; возвращается первая ошибка.
// Функция ничего не меняет.
func Validate(c Candidate, now time.Time) error {
	// 1. Машина существует и свободна
	if c.Vehicle == nil {
		return reject(RejectVehicleMissing, domain.ErrVehicleNotFound)
	}
	if !c.Vehicle.IsDispatchable() {
		return reject(RejectVehicleUnavailable,
			fmt.Errorf("%w: %s is %s", domain.ErrVehicleNotAvailable, c.Vehicle.Plate, c.Vehicle.Status))
	}

	// 2. Водитель существует, на смене, права действуют, нет другого рейса
	if c.Driver == nil {
		return reject(RejectDriverMissing, domain.ErrDriverNotFound)
	}
	if c.Driver.Status != domain.DriverOnDuty {
		return reject(RejectDriverOffDuty,
			fmt.Errorf("%w: %s is %s", domain.ErrDriverNotOnDuty, c.Driver.Name, c.Driver.Status))
	}
	if !c.Driver.LicenseValid(now) {
		return reject(RejectLicenseExpired,
			fmt.Errorf("%w: %s license expired on %s", domain.ErrLicenseExpired, c.Driver.Name, c.Driver.LicenseExpiry.Format("2006-01-02")))
	}
	if c.DriverActiveTrips > 0 {
		return reject(RejectDriverBusy, domain.ErrDriverOnTrip)
	}

	// 3. Вес груза положительный и не больше грузоподъемности
	if c.CargoWeight <= 0 {
		return reject(RejectCargoInvalid, domain.ErrInvalidCargoWeight)
	}
	if c.CargoWeight > c.Vehicle.Capacity {
		return reject(RejectOverCapacity,
			fmt.Errorf("%w: %.0f kg > %.0f kg", domain.ErrCargoExceedsCapacity, c.CargoWeight, c.Vehicle.Capacity))
	}

	// 4. Маршрут задан
	if strings.TrimSpace(c.Origin) == "" || strings.TrimSpace(c.Destination) == "" {
		return reject(RejectRouteMissing, domain.ErrMissingRoute)
	}

	return nil
}
