package domain

import "github.com/google/uuid"

// AlertCategory - источник уведомления
type AlertCategory string

const (
	AlertLicense     AlertCategory = "license"
	AlertMaintenance AlertCategory = "maintenance"
	AlertTrip        AlertCategory = "trip"
)

// AlertSeverity - важность уведомления
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Rank задает порядок отображения: critical раньше warning раньше info
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Alert - производное уведомление, не сохраняется
type Alert struct {
	ID       string        `json:"id"`
	Category AlertCategory `json:"category"`
	Severity AlertSeverity `json:"severity"`
	SourceID uuid.UUID     `json:"sourceId"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Action   string        `json:"action"`
}
