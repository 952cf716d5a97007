package analytics

import (
	"sort"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/google/uuid"
)

// RevenueMultiplier - оценочная выручка рейса как кратное стоимости топлива
const RevenueMultiplier = 3

// MinTrendMonths - минимум месяцев реальных данных для тренда
const MinTrendMonths = 3

// Статусы тренда расхода топлива
const (
	TrendOK               = "ok"
	TrendInsufficientData = "insufficient_data"
)

// Dataset - снимок коллекций для агрегации
type Dataset struct {
	Vehicles    []*domain.Vehicle
	Drivers     []*domain.Driver
	Trips       []*domain.Trip
	Maintenance []*domain.MaintenanceLog
	Expenses    []*domain.Expense
}

// MonthlySummary - финансовая сводка за месяц
type MonthlySummary struct {
	Month           string   `json:"month"`
	CompletedTrips  int      `json:"completedTrips"`
	Revenue         float64  `json:"revenue"`
	FuelCost        float64  `json:"fuelCost"`
	MaintenanceCost float64  `json:"maintenanceCost"`
	NetProfit       float64  `json:"netProfit"`
	Margin          *float64 `json:"margin"`
}

// VehicleROI - окупаемость одной машины
type VehicleROI struct {
	VehicleID       uuid.UUID `json:"vehicleId"`
	Plate           string    `json:"plate"`
	Model           string    `json:"model"`
	Revenue         float64   `json:"revenue"`
	FuelCost        float64   `json:"fuelCost"`
	MaintenanceCost float64   `json:"maintenanceCost"`
	AcquisitionCost float64   `json:"acquisitionCost"`
	ROI             *float64  `json:"roi"`
}

// EfficiencyPoint - км на единицу расходов на топливо за месяц
type EfficiencyPoint struct {
	Month         string  `json:"month"`
	Distance      float64 `json:"distance"`
	FuelExpense   float64 `json:"fuelExpense"`
	KmPerFuelUnit float64 `json:"kmPerFuelUnit"`
}

// FuelEfficiencyTrend - тренд; при нехватке данных status = insufficient_data
type FuelEfficiencyTrend struct {
	Status         string            `json:"status"`
	Points         []EfficiencyPoint `json:"points"`
	RequiredMonths int               `json:"requiredMonths"`
}

// KPIs - оперативные показатели парка
type KPIs struct {
	TotalVehicles   int `json:"totalVehicles"`
	ActiveFleet     int `json:"activeFleet"`
	InShop          int `json:"inShop"`
	Available       int `json:"available"`
	Idle            int `json:"idle"`
	UtilizationPct  int `json:"utilizationPct"`
	ActiveTrips     int `json:"activeTrips"`
	PendingDrafts   int `json:"pendingDrafts"`
	DriversOnDuty   int `json:"driversOnDuty"`
	ExpiredLicenses int `json:"expiredLicenses"`
}

// VehicleCost - суммарные затраты на машину
type VehicleCost struct {
	VehicleID       uuid.UUID `json:"vehicleId"`
	Plate           string    `json:"plate"`
	Model           string    `json:"model"`
	MaintenanceCost float64   `json:"maintenanceCost"`
	FuelExpense     float64   `json:"fuelExpense"`
	MiscExpense     float64   `json:"miscExpense"`
	Total           float64   `json:"total"`
}

func ratio(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	value := numerator / denominator
	return &value
}

// MonthlySummaries группирует завершенные рейсы и заявки на ремонт по месяцам
func MonthlySummaries(data Dataset) []MonthlySummary {
	byMonth := map[string]*MonthlySummary{}
	get := func(month string) *MonthlySummary {
		if s, ok := byMonth[month]; ok {
			return s
		}
		s := &MonthlySummary{Month: month}
		byMonth[month] = s
		return s
	}

	for _, t := range data.Trips {
		if t.Status != domain.TripCompleted {
			continue
		}
		s := get(t.Month())
		s.CompletedTrips++
		s.FuelCost += t.FuelCost
		s.Revenue += RevenueMultiplier * t.FuelCost
	}
	for _, m := range data.Maintenance {
		get(m.CreatedAt.UTC().Format("2006-01")).MaintenanceCost += m.Cost
	}

	summaries := make([]MonthlySummary, 0, len(byMonth))
	for _, s := range byMonth {
		s.NetProfit = s.Revenue - s.FuelCost - s.MaintenanceCost
		s.Margin = ratio(s.NetProfit, s.Revenue)
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Month < summaries[j].Month })
	return summaries
}

// VehicleROIs считает окупаемость по каждой машине
func VehicleROIs(data Dataset) []VehicleROI {
	rows := make(map[uuid.UUID]*VehicleROI, len(data.Vehicles))
	result := make([]*VehicleROI, 0, len(data.Vehicles))
	for _, v := range data.Vehicles {
		row := &VehicleROI{VehicleID: v.ID, Plate: v.Plate, Model: v.Model, AcquisitionCost: v.AcquisitionCost}
		rows[v.ID] = row
		result = append(result, row)
	}

	for _, t := range data.Trips {
		row, ok := rows[t.VehicleID]
		if !ok || t.Status != domain.TripCompleted {
			continue
		}
		row.FuelCost += t.FuelCost
		row.Revenue += RevenueMultiplier * t.FuelCost
	}
	for _, m := range data.Maintenance {
		if row, ok := rows[m.VehicleID]; ok {
			row.MaintenanceCost += m.Cost
		}
	}

	out := make([]VehicleROI, 0, len(result))
	for _, row := range result {
		row.ROI = ratio(row.Revenue-row.FuelCost-row.MaintenanceCost, row.AcquisitionCost)
		out = append(out, *row)
	}

	// ROI по убыванию, машины без стоимости в конце
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ROI, out[j].ROI
		switch {
		case a != nil && b != nil && *a != *b:
			return *a > *b
		case (a == nil) != (b == nil):
			return a != nil
		}
		return out[i].Plate < out[j].Plate
	})
	return out
}

// FuelEfficiency строит тренд км на единицу расходов на топливо.
// Месяц берется из рейса; отмененные рейсы не учитываются.
func FuelEfficiency(data Dataset) FuelEfficiencyTrend {
	trips := make(map[uuid.UUID]*domain.Trip, len(data.Trips))
	for _, t := range data.Trips {
		trips[t.ID] = t
	}

	byMonth := map[string]*EfficiencyPoint{}
	for _, e := range data.Expenses {
		trip, ok := trips[e.TripID]
		if !ok || trip.Status == domain.TripCancelled || e.FuelExpense <= 0 || e.Distance <= 0 {
			continue
		}
		month := trip.Month()
		p, ok := byMonth[month]
		if !ok {
			p = &EfficiencyPoint{Month: month}
			byMonth[month] = p
		}
		p.Distance += e.Distance
		p.FuelExpense += e.FuelExpense
	}

	points := make([]EfficiencyPoint, 0, len(byMonth))
	for _, p := range byMonth {
		p.KmPerFuelUnit = p.Distance / p.FuelExpense
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })

	status := TrendOK
	if len(points) < MinTrendMonths {
		status = TrendInsufficientData
	}
	return FuelEfficiencyTrend{Status: status, Points: points, RequiredMonths: MinTrendMonths}
}

// FleetKPIs считает оперативные показатели
func FleetKPIs(data Dataset, licenseValid func(*domain.Driver) bool) KPIs {
	k := KPIs{TotalVehicles: len(data.Vehicles)}
	for _, v := range data.Vehicles {
		switch v.Status {
		case domain.VehicleOnTrip:
			k.ActiveFleet++
		case domain.VehicleInShop:
			k.InShop++
		case domain.VehicleAvailable:
			k.Available++
		case domain.VehicleIdle:
			k.Idle++
		}
	}
	if k.TotalVehicles > 0 {
		k.UtilizationPct = int(float64(k.ActiveFleet)*100/float64(k.TotalVehicles) + 0.5)
	}

	for _, t := range data.Trips {
		switch {
		case t.Status.IsActive():
			k.ActiveTrips++
		case t.Status == domain.TripDraft:
			k.PendingDrafts++
		}
	}
	for _, d := range data.Drivers {
		if d.Status == domain.DriverOnDuty {
			k.DriversOnDuty++
		}
		if !licenseValid(d) {
			k.ExpiredLicenses++
		}
	}
	return k
}

// CostliestVehicles возвращает limit машин с наибольшими затратами
func CostliestVehicles(data Dataset, limit int) []VehicleCost {
	rows := make(map[uuid.UUID]*VehicleCost, len(data.Vehicles))
	for _, v := range data.Vehicles {
		rows[v.ID] = &VehicleCost{VehicleID: v.ID, Plate: v.Plate, Model: v.Model}
	}

	vehicleOfTrip := make(map[uuid.UUID]uuid.UUID, len(data.Trips))
	for _, t := range data.Trips {
		vehicleOfTrip[t.ID] = t.VehicleID
	}

	for _, m := range data.Maintenance {
		if row, ok := rows[m.VehicleID]; ok {
			row.MaintenanceCost += m.Cost
		}
	}
	for _, e := range data.Expenses {
		row, ok := rows[vehicleOfTrip[e.TripID]]
		if !ok {
			continue
		}
		row.FuelExpense += e.FuelExpense
		row.MiscExpense += e.MiscExpense
	}

	out := make([]VehicleCost, 0, len(rows))
	for _, row := range rows {
		row.Total = row.MaintenanceCost + row.FuelExpense + row.MiscExpense
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Plate < out[j].Plate
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
