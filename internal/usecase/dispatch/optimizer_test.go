package dispatch

import (
	"testing"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vehicle(plate string, capacity, odometer float64, status domain.VehicleStatus) *domain.Vehicle {
	return &domain.Vehicle{Plate: plate, Capacity: capacity, Odometer: odometer, Status: status}
}

func TestSuggestOptimalVehicle_FiltersAndOrders(t *testing.T) {
	vehicles := []*domain.Vehicle{
		vehicle("SMALL", 1000, 0, domain.VehicleAvailable),
		vehicle("TIGHT", 2200, 50000, domain.VehicleAvailable),
		vehicle("FRESH", 4000, 10000, domain.VehicleAvailable),
		vehicle("BUSY", 2000, 0, domain.VehicleOnTrip),
		vehicle("SHOP", 2000, 0, domain.VehicleInShop),
		vehicle("HUGE", 20000, 100000, domain.VehicleAvailable),
	}

	got := SuggestOptimalVehicle(2000, vehicles)
	require.Len(t, got, 3)

	plates := []string{got[0].Vehicle.Plate, got[1].Vehicle.Plate, got[2].Vehicle.Plate}
	assert.Equal(t, []string{"TIGHT", "FRESH", "HUGE"}, plates)

	// TIGHT: 0.55*90.9 + 0.45*50 = 72.5
	assert.InDelta(t, 72.5, got[0].Score, 0.01)
	assert.Equal(t, LabelGoodFit, got[0].Label)

	// FRESH: 0.55*50 + 0.45*90 = 68
	assert.InDelta(t, 68.0, got[1].Score, 0.01)

	// HUGE: 0.55*10 + 0 = 5.5
	assert.InDelta(t, 5.5, got[2].Score, 0.01)
	assert.Equal(t, LabelUsable, got[2].Label)

	for i, s := range got {
		assert.GreaterOrEqual(t, s.Vehicle.Capacity, 2000.0)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Score, s.Score)
		}
	}
}

func TestSuggestOptimalVehicle_TieBreakByOdometer(t *testing.T) {
	vehicles := []*domain.Vehicle{
		vehicle("B", 1000, 0, domain.VehicleAvailable),
		vehicle("A", 1000, 0, domain.VehicleAvailable),
	}

	got := SuggestOptimalVehicle(1000, vehicles)
	require.Len(t, got, 2)
	// Все пробеги нулевые: свежесть 100, оценка 100
	assert.InDelta(t, 100.0, got[0].Score, 0.001)
	assert.Equal(t, LabelBestFit, got[0].Label)
	assert.Equal(t, "B", got[0].Vehicle.Plate)

	vehicles = []*domain.Vehicle{
		vehicle("OLD", 2000, 500, domain.VehicleAvailable),
		vehicle("NEW", 1000, 0, domain.VehicleAvailable),
	}
	// OLD: 0.55*50 + 0.45*0 = 27.5; NEW: 0.55*100 + 0.45*100 = 100
	got = SuggestOptimalVehicle(1000, vehicles)
	assert.Equal(t, "NEW", got[0].Vehicle.Plate)
}

func TestSuggestOptimalVehicle_Empty(t *testing.T) {
	assert.Empty(t, SuggestOptimalVehicle(100, nil))
	assert.Empty(t, SuggestOptimalVehicle(0, []*domain.Vehicle{vehicle("A", 10, 0, domain.VehicleAvailable)}))
	assert.Empty(t, SuggestOptimalVehicle(100, []*domain.Vehicle{vehicle("A", 10, 0, domain.VehicleAvailable)}))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, LabelBestFit, Label(85))
	assert.Equal(t, LabelGoodFit, Label(84.99))
	assert.Equal(t, LabelGoodFit, Label(65))
	assert.Equal(t, LabelUsable, Label(64.9))
}
