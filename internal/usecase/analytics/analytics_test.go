package analytics

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(m time.Month) time.Time {
	return time.Date(2026, m, 10, 9, 0, 0, 0, time.UTC)
}

func vehicle(plate string, cost float64) *domain.Vehicle {
	return &domain.Vehicle{ID: uuid.New(), Plate: plate, Model: "Model " + plate, Capacity: 1000, AcquisitionCost: cost}
}

func trip(v *domain.Vehicle, status domain.TripStatus, fuel float64, created time.Time) *domain.Trip {
	return &domain.Trip{ID: uuid.New(), VehicleID: v.ID, Status: status, FuelCost: fuel, CreatedAt: created}
}

func TestMonthlySummaries(t *testing.T) {
	v := vehicle("AAA", 10000)
	data := Dataset{
		Vehicles: []*domain.Vehicle{v},
		Trips: []*domain.Trip{
			trip(v, domain.TripCompleted, 100, month(time.January)),
			trip(v, domain.TripCompleted, 50, month(time.January)),
			trip(v, domain.TripCancelled, 999, month(time.January)),
			trip(v, domain.TripOnTrip, 999, month(time.February)),
		},
		Maintenance: []*domain.MaintenanceLog{
			{ID: uuid.New(), VehicleID: v.ID, Cost: 120, CreatedAt: month(time.January)},
			{ID: uuid.New(), VehicleID: v.ID, Cost: 80, CreatedAt: month(time.March)},
		},
	}

	got := MonthlySummaries(data)
	require.Len(t, got, 2)

	jan := got[0]
	assert.Equal(t, "2026-01", jan.Month)
	assert.Equal(t, 2, jan.CompletedTrips)
	assert.Equal(t, 450.0, jan.Revenue)
	assert.Equal(t, 150.0, jan.FuelCost)
	assert.Equal(t, 120.0, jan.MaintenanceCost)
	assert.Equal(t, 180.0, jan.NetProfit)
	require.NotNil(t, jan.Margin)
	assert.InDelta(t, 0.4, *jan.Margin, 1e-9)

	// Месяц только с ремонтом: выручки нет, маржа не определена
	mar := got[1]
	assert.Equal(t, "2026-03", mar.Month)
	assert.Equal(t, -80.0, mar.NetProfit)
	assert.Nil(t, mar.Margin)
}

func TestVehicleROIs(t *testing.T) {
	good := vehicle("GOOD", 1000)
	bad := vehicle("BAD", 1000)
	free := vehicle("FREE", 0)

	data := Dataset{
		Vehicles: []*domain.Vehicle{bad, free, good},
		Trips: []*domain.Trip{
			trip(good, domain.TripCompleted, 100, month(time.May)),
			trip(bad, domain.TripCompleted, 10, month(time.May)),
			trip(free, domain.TripCompleted, 10, month(time.May)),
		},
		Maintenance: []*domain.MaintenanceLog{
			{ID: uuid.New(), VehicleID: bad.ID, Cost: 100, CreatedAt: month(time.May)},
		},
	}

	got := VehicleROIs(data)
	require.Len(t, got, 3)

	assert.Equal(t, "GOOD", got[0].Plate)
	require.NotNil(t, got[0].ROI)
	assert.InDelta(t, 0.2, *got[0].ROI, 1e-9)

	assert.Equal(t, "BAD", got[1].Plate)
	require.NotNil(t, got[1].ROI)
	assert.InDelta(t, -0.08, *got[1].ROI, 1e-9)

	assert.Equal(t, "FREE", got[2].Plate)
	assert.Nil(t, got[2].ROI)
}

func TestFuelEfficiency(t *testing.T) {
	v := vehicle("EFF", 1000)
	expenseFor := func(tr *domain.Trip, fuel, distance float64) *domain.Expense {
		return &domain.Expense{ID: uuid.New(), TripID: tr.ID, FuelExpense: fuel, Distance: distance}
	}

	t.Run("меньше трех месяцев", func(t *testing.T) {
		jan := trip(v, domain.TripCompleted, 10, month(time.January))
		got := FuelEfficiency(Dataset{
			Trips:    []*domain.Trip{jan},
			Expenses: []*domain.Expense{expenseFor(jan, 50, 500)},
		})

		assert.Equal(t, TrendInsufficientData, got.Status)
		assert.Equal(t, MinTrendMonths, got.RequiredMonths)
		require.Len(t, got.Points, 1)
		assert.Equal(t, 10.0, got.Points[0].KmPerFuelUnit)
	})

	t.Run("три месяца и отмененный рейс", func(t *testing.T) {
		jan := trip(v, domain.TripCompleted, 10, month(time.January))
		feb := trip(v, domain.TripCompleted, 10, month(time.February))
		mar := trip(v, domain.TripOnTrip, 10, month(time.March))
		cancelled := trip(v, domain.TripCancelled, 10, month(time.April))

		got := FuelEfficiency(Dataset{
			Trips: []*domain.Trip{jan, feb, mar, cancelled},
			Expenses: []*domain.Expense{
				expenseFor(jan, 50, 500),
				expenseFor(jan, 50, 300),
				expenseFor(feb, 20, 100),
				expenseFor(mar, 10, 80),
				expenseFor(cancelled, 10, 1000),
			},
		})

		assert.Equal(t, TrendOK, got.Status)
		require.Len(t, got.Points, 3)
		assert.Equal(t, "2026-01", got.Points[0].Month)
		assert.Equal(t, 8.0, got.Points[0].KmPerFuelUnit)
		assert.Equal(t, 5.0, got.Points[1].KmPerFuelUnit)
		assert.Equal(t, "2026-03", got.Points[2].Month)
	})

	t.Run("нет данных", func(t *testing.T) {
		got := FuelEfficiency(Dataset{})
		assert.Equal(t, TrendInsufficientData, got.Status)
		assert.Empty(t, got.Points)
	})
}

func TestFleetKPIs(t *testing.T) {
	onTrip := vehicle("A", 1)
	onTrip.Status = domain.VehicleOnTrip
	shop := vehicle("B", 1)
	shop.Status = domain.VehicleInShop
	free := vehicle("C", 1)
	free.Status = domain.VehicleAvailable

	valid := &domain.Driver{ID: uuid.New(), Status: domain.DriverOnDuty}
	expired := &domain.Driver{ID: uuid.New(), Status: domain.DriverSuspended}

	data := Dataset{
		Vehicles: []*domain.Vehicle{onTrip, shop, free},
		Drivers:  []*domain.Driver{valid, expired},
		Trips: []*domain.Trip{
			trip(onTrip, domain.TripOnTrip, 1, month(time.June)),
			trip(free, domain.TripDraft, 1, month(time.June)),
			trip(free, domain.TripCompleted, 1, month(time.June)),
		},
	}

	got := FleetKPIs(data, func(d *domain.Driver) bool { return d != expired })
	assert.Equal(t, KPIs{
		TotalVehicles:   3,
		ActiveFleet:     1,
		InShop:          1,
		Available:       1,
		UtilizationPct:  33,
		ActiveTrips:     1,
		PendingDrafts:   1,
		DriversOnDuty:   1,
		ExpiredLicenses: 1,
	}, got)

	assert.Zero(t, FleetKPIs(Dataset{}, nil).UtilizationPct)
}

func TestCostliestVehicles(t *testing.T) {
	a := vehicle("A", 1)
	b := vehicle("B", 1)
	c := vehicle("C", 1)
	tb := trip(b, domain.TripCompleted, 0, month(time.June))

	data := Dataset{
		Vehicles: []*domain.Vehicle{a, b, c},
		Trips:    []*domain.Trip{tb},
		Maintenance: []*domain.MaintenanceLog{
			{ID: uuid.New(), VehicleID: a.ID, Cost: 300},
			{ID: uuid.New(), VehicleID: b.ID, Cost: 100},
		},
		Expenses: []*domain.Expense{
			{ID: uuid.New(), TripID: tb.ID, FuelExpense: 250, MiscExpense: 50},
			{ID: uuid.New(), TripID: uuid.New(), FuelExpense: 1000},
		},
	}

	got := CostliestVehicles(data, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Plate)
	assert.Equal(t, 400.0, got[0].Total)
	assert.Equal(t, "A", got[1].Plate)

	assert.Len(t, CostliestVehicles(data, 0), 3)
}

func TestWriteMonthlyCSV(t *testing.T) {
	margin := 0.4
	var buf bytes.Buffer
	err := WriteMonthlyCSV(&buf, []MonthlySummary{
		{Month: "2026-01", CompletedTrips: 2, Revenue: 450, FuelCost: 150, MaintenanceCost: 120, NetProfit: 180, Margin: &margin},
		{Month: "2026-03", NetProfit: -80, MaintenanceCost: 80},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "month,completed_trips,revenue,fuel_cost,maintenance_cost,net_profit,margin", lines[0])
	assert.Equal(t, "2026-01,2,450.00,150.00,120.00,180.00,0.4000", lines[1])
	assert.Equal(t, "2026-03,0,0.00,0.00,80.00,-80.00,", lines[2])
}

func TestService_Reports(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.NewDB())

	v := vehicle("SRV", 2000)
	require.NoError(t, store.Vehicles.Create(ctx, v))

	tr := trip(v, domain.TripCompleted, 100, month(time.July))
	tr.Origin, tr.Destination, tr.CargoWeight = "A", "B", 10
	require.NoError(t, store.Trips.Create(ctx, tr))
	require.NoError(t, store.Expenses.Create(ctx, &domain.Expense{TripID: tr.ID, FuelExpense: 100, MiscExpense: 5, Distance: 400, Status: domain.ExpenseDone}))

	svc := NewService(store, logger.NewNoop())

	monthly, err := svc.Monthly(ctx)
	require.NoError(t, err)
	require.Len(t, monthly, 1)
	assert.Equal(t, 300.0, monthly[0].Revenue)

	roi, err := svc.ROI(ctx)
	require.NoError(t, err)
	require.Len(t, roi, 1)
	assert.InDelta(t, 0.1, *roi[0].ROI, 1e-9)

	trend, err := svc.FuelEfficiency(ctx)
	require.NoError(t, err)
	assert.Equal(t, TrendInsufficientData, trend.Status)

	costliest, err := svc.Costliest(ctx, 0)
	require.NoError(t, err)
	require.Len(t, costliest, 1)
	assert.Equal(t, 105.0, costliest[0].Total)

	kpis, err := svc.KPIs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, kpis.TotalVehicles)
}
