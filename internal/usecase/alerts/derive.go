package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
)

// Thresholds - пороги генерации уведомлений
type Thresholds struct {
	LicenseWarningDays int
	ServiceIntervalKm  float64
	ServiceWarningKm   float64
	DraftStaleAfter    time.Duration
}

// DefaultThresholds - пороги по умолчанию
func DefaultThresholds() Thresholds {
	return Thresholds{
		LicenseWarningDays: 30,
		ServiceIntervalKm:  10000,
		ServiceWarningKm:   1000,
		DraftStaleAfter:    24 * time.Hour,
	}
}

// Действия, предлагаемые пользователю
const (
	ActionSuspendDriver   = "Suspend Driver"
	ActionRenewLicense    = "Renew License"
	ActionScheduleService = "Schedule Service"
	ActionDispatchNow     = "Dispatch Now"
)

// State - срез данных, из которого строятся уведомления
type State struct {
	Drivers  []*domain.Driver
	Vehicles []*domain.Vehicle
	Trips    []*domain.Trip
}

// Derive строит уведомления из текущего состояния.
// Результат зависит только от state, now и порогов.
func Derive(state State, now time.Time, th Thresholds) []domain.Alert {
	alerts := make([]domain.Alert, 0)

	for _, d := range state.Drivers {
		if alert, ok := licenseAlert(d, now, th); ok {
			alerts = append(alerts, alert)
		}
	}
	for _, v := range state.Vehicles {
		if alert, ok := serviceAlert(v, th); ok {
			alerts = append(alerts, alert)
		}
	}
	for _, t := range state.Trips {
		if alert, ok := staleDraftAlert(t, now, th); ok {
			alerts = append(alerts, alert)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.ID < b.ID
	})

	return alerts
}

func licenseAlert(d *domain.Driver, now time.Time, th Thresholds) (domain.Alert, bool) {
	days := d.DaysUntilExpiry(now)
	alert := domain.Alert{
		ID:       fmt.Sprintf("%s:%s", domain.AlertLicense, d.ID),
		Category: domain.AlertLicense,
		SourceID: d.ID,
	}

	switch {
	case days <= 0:
		alert.Severity = domain.SeverityCritical
		alert.Title = "License expired"
		alert.Message = fmt.Sprintf("%s: license %s expired", d.Name, d.License)
		alert.Action = ActionSuspendDriver
	case days <= th.LicenseWarningDays:
		alert.Severity = domain.SeverityWarning
		alert.Title = "License expiring soon"
		alert.Message = fmt.Sprintf("%s: license %s expires in %d days", d.Name, d.License, days)
		alert.Action = ActionRenewLicense
	default:
		return domain.Alert{}, false
	}
	return alert, true
}

func serviceAlert(v *domain.Vehicle, th Thresholds) (domain.Alert, bool) {
	milestone := v.LastServiceOdometer + th.ServiceIntervalKm
	if v.Odometer < milestone-th.ServiceWarningKm {
		return domain.Alert{}, false
	}

	message := fmt.Sprintf("%s (%s): service due at %.0f km, odometer %.0f km", v.Model, v.Plate, milestone, v.Odometer)
	if v.Odometer >= milestone {
		message = fmt.Sprintf("%s (%s): service overdue by %.0f km", v.Model, v.Plate, v.Odometer-milestone)
	}

	return domain.Alert{
		ID:       fmt.Sprintf("%s:%s", domain.AlertMaintenance, v.ID),
		Category: domain.AlertMaintenance,
		Severity: domain.SeverityWarning,
		SourceID: v.ID,
		Title:    "Service due",
		Message:  message,
		Action:   ActionScheduleService,
	}, true
}

func staleDraftAlert(t *domain.Trip, now time.Time, th Thresholds) (domain.Alert, bool) {
	if t.Status != domain.TripDraft || now.Sub(t.CreatedAt) <= th.DraftStaleAfter {
		return domain.Alert{}, false
	}

	hours := int(now.Sub(t.CreatedAt).Hours())
	return domain.Alert{
		ID:       fmt.Sprintf("%s:%s", domain.AlertTrip, t.ID),
		Category: domain.AlertTrip,
		Severity: domain.SeverityInfo,
		SourceID: t.ID,
		Title:    "Draft trip waiting",
		Message:  fmt.Sprintf("Trip %s -> %s has been in draft for %d hours", t.Origin, t.Destination, hours),
		Action:   ActionDispatchNow,
	}, true
}
