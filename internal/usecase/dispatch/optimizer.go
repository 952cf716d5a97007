package dispatch

import (
	"math"
	"sort"

	"github.com/frontandrew/fleetflow/internal/domain"
)

// Веса итоговой оценки
const (
	CapacityFitWeight       = 0.55
	OdometerFreshnessWeight = 0.45
)

// Границы меток
const (
	BestFitThreshold = 85
	GoodFitThreshold = 65
)

// Метки пригодности
const (
	LabelBestFit = "Best Fit"
	LabelGoodFit = "Good Fit"
	LabelUsable  = "Usable"
)

// Suggestion - машина-кандидат с разложенной оценкой
type Suggestion struct {
	Vehicle           *domain.Vehicle `json:"vehicle"`
	Score             float64         `json:"score"`
	CapacityFit       float64         `json:"capacityFit"`
	OdometerFreshness float64         `json:"odometerFreshness"`
	Label             string          `json:"label"`
}

// Label возвращает метку для оценки
func Label(score float64) string {
	switch {
	case score >= BestFitThreshold:
		return LabelBestFit
	case score >= GoodFitThreshold:
		return LabelGoodFit
	default:
		return LabelUsable
	}
}

// SuggestOptimalVehicle ранжирует свободные машины, способные взять груз.
// Порядок: оценка по убыванию, при равенстве меньший пробег.
func SuggestOptimalVehicle(weight float64, vehicles []*domain.Vehicle) []Suggestion {
	if weight <= 0 {
		return []Suggestion{}
	}

	candidates := make([]*domain.Vehicle, 0, len(vehicles))
	maxOdometer := 0.0
	for _, v := range vehicles {
		if v.Status != domain.VehicleAvailable || v.Capacity < weight {
			continue
		}
		candidates = append(candidates, v)
		maxOdometer = math.Max(maxOdometer, v.Odometer)
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, v := range candidates {
		capacityFit := 100 * weight / v.Capacity
		freshness := 100.0
		if maxOdometer > 0 {
			freshness = 100 * (1 - v.Odometer/maxOdometer)
		}
		score := CapacityFitWeight*capacityFit + OdometerFreshnessWeight*freshness

		suggestions = append(suggestions, Suggestion{
			Vehicle:           v,
			Score:             score,
			CapacityFit:       capacityFit,
			OdometerFreshness: freshness,
			Label:             Label(score),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Vehicle.Odometer < suggestions[j].Vehicle.Odometer
	})

	return suggestions
}
