// Package seed заполняет пустое хранилище демонстрационными данными.
// Данные создаются только явным вызовом (fleetctl seed) и никогда не подставляются вместо реальных.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/hash"
	"github.com/frontandrew/fleetflow/internal/repository"
)

// DemoPassword - пароль всех демонстрационных учетных записей
const DemoPassword = "fleet123"

// ErrNotEmpty - в хранилище уже есть машины
var ErrNotEmpty = errors.New("storage already contains vehicles")

// Account - демонстрационная учетная запись
type Account struct {
	Name  string
	Email string
	Role  domain.UserRole
}

// Accounts - по одной учетной записи на роль
var Accounts = []Account{
	{Name: "Arjun Sharma", Email: "manager@fleetflow.com", Role: domain.RoleManager},
	{Name: "Kiran Desai", Email: "dispatcher@fleetflow.com", Role: domain.RoleDispatcher},
	{Name: "Meera Iyer", Email: "safety@fleetflow.com", Role: domain.RoleSafety},
	{Name: "Rohit Verma", Email: "analyst@fleetflow.com", Role: domain.RoleAnalyst},
}

// Summary - сколько записей создано
type Summary struct {
	Users       int
	Vehicles    int
	Drivers     int
	Trips       int
	Maintenance int
	Expenses    int
}

// Seeder создает демонстрационный набор данных
type Seeder struct {
	store  *repository.Store
	hasher *hash.Hasher
	now    func() time.Time
}

// New создает Seeder поверх хранилища
func New(store *repository.Store, hasher *hash.Hasher) *Seeder {
	return &Seeder{store: store, hasher: hasher, now: time.Now}
}

// Run создает учетные записи, машины, водителей и историю рейсов за четыре месяца.
// Существующие учетные записи пропускаются; при наличии машин возвращается ErrNotEmpty.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	existing, err := s.store.Vehicles.List(ctx, repository.VehicleFilter{})
	if err != nil {
		return sum, fmt.Errorf("failed to list vehicles: %w", err)
	}
	if len(existing) > 0 {
		return sum, ErrNotEmpty
	}

	if sum.Users, err = s.users(ctx); err != nil {
		return sum, err
	}

	now := s.now()

	vehicles := []*domain.Vehicle{
		{Model: "Volvo FH16", Plate: "MH-12-AB-1001", Type: "Truck", Capacity: 18000, Odometer: 82000, AcquisitionCost: 95000, Status: domain.VehicleOnTrip, LastServiceOdometer: 75000},
		{Model: "Tata Ace", Plate: "MH-12-CD-2002", Type: "Mini", Capacity: 750, Odometer: 41200, AcquisitionCost: 6000, Status: domain.VehicleAvailable, LastServiceOdometer: 32000},
		{Model: "Ashok Leyland Dost", Plate: "MH-14-EF-3003", Type: "Van", Capacity: 1500, Odometer: 25500, AcquisitionCost: 12000, Status: domain.VehicleInShop, LastServiceOdometer: 15000},
		{Model: "Mahindra Bolero Pickup", Plate: "MH-14-GH-4004", Type: "Pickup", Capacity: 1200, Odometer: 60300, AcquisitionCost: 9000, Status: domain.VehicleAvailable, LastServiceOdometer: 60000},
		{Model: "Eicher Pro 2049", Plate: "MH-01-IJ-5005", Type: "Truck", Capacity: 5000, Odometer: 12000, AcquisitionCost: 30000, Status: domain.VehicleIdle, LastServiceOdometer: 10000},
	}
	for _, v := range vehicles {
		if err := s.store.Vehicles.Create(ctx, v); err != nil {
			return sum, fmt.Errorf("failed to create vehicle %s: %w", v.Plate, err)
		}
		sum.Vehicles++
	}

	drivers := []*domain.Driver{
		{Name: "Ravi Kumar", License: "DL-0420110012345", LicenseExpiry: now.AddDate(2, 0, 0), Type: domain.LicenseHeavy, CompletionRate: 96, SafetyScore: 92, Status: domain.DriverOnDuty},
		{Name: "Sunita Patil", License: "MH-1220150034567", LicenseExpiry: now.AddDate(0, 0, 20), Type: domain.LicenseLight, CompletionRate: 91, SafetyScore: 88, Status: domain.DriverOnDuty},
		{Name: "Amit Joshi", License: "MH-1420090011223", LicenseExpiry: now.AddDate(0, 0, -10), Type: domain.LicenseHeavy, CompletionRate: 84, SafetyScore: 79, Complaints: 1, Status: domain.DriverOffDuty},
		{Name: "Farah Khan", License: "KA-0320180077889", LicenseExpiry: now.AddDate(3, 0, 0), Type: domain.LicenseLight, CompletionRate: 70, SafetyScore: 61, Complaints: 4, Status: domain.DriverSuspended},
		{Name: "Vikram Rao", License: "GJ-0120160055667", LicenseExpiry: now.AddDate(1, 0, 0), Type: domain.LicenseHeavy, CompletionRate: 98, SafetyScore: 95, Status: domain.DriverOnDuty},
	}
	for _, d := range drivers {
		if err := s.store.Drivers.Create(ctx, d); err != nil {
			return sum, fmt.Errorf("failed to create driver %s: %w", d.License, err)
		}
		sum.Drivers++
	}

	volvo, tata, dost, bolero, eicher := vehicles[0], vehicles[1], vehicles[2], vehicles[3], vehicles[4]
	ravi, sunita, vikram := drivers[0], drivers[1], drivers[4]

	// Завершенные рейсы с расходами за последние четыре месяца
	history := []struct {
		vehicle  *domain.Vehicle
		driver   *domain.Driver
		from, to string
		cargo    float64
		fuel     float64
		distance float64
		months   int
	}{
		{volvo, ravi, "Mumbai", "Pune", 12000, 420, 150, 4},
		{tata, sunita, "Thane", "Navi Mumbai", 500, 60, 35, 4},
		{bolero, vikram, "Pune", "Nashik", 900, 180, 210, 3},
		{volvo, ravi, "Mumbai", "Surat", 15000, 760, 280, 3},
		{eicher, vikram, "Nagpur", "Amravati", 4000, 350, 155, 2},
		{tata, sunita, "Mumbai", "Kalyan", 600, 70, 48, 2},
		{dost, vikram, "Pune", "Satara", 1300, 210, 115, 1},
		{bolero, sunita, "Nashik", "Shirdi", 800, 110, 90, 1},
	}
	for _, h := range history {
		created := time.Date(now.Year(), now.Month()-time.Month(h.months), 10, 9, 0, 0, 0, time.UTC)
		completed := created.Add(8 * time.Hour)
		trip := &domain.Trip{
			VehicleID: h.vehicle.ID, DriverID: h.driver.ID,
			Origin: h.from, Destination: h.to,
			CargoWeight: h.cargo, FuelCost: h.fuel,
			Status:       domain.TripCompleted,
			CreatedAt:    created,
			DispatchedAt: &created,
			CompletedAt:  &completed,
		}
		if err := s.createTrip(ctx, &sum, trip); err != nil {
			return sum, err
		}

		expense := &domain.Expense{
			TripID: trip.ID, DriverName: h.driver.Name,
			FuelExpense: h.fuel, MiscExpense: h.fuel / 10, Distance: h.distance,
			Status: domain.ExpenseDone, CreatedAt: completed,
		}
		if err := s.store.Expenses.Create(ctx, expense); err != nil {
			return sum, fmt.Errorf("failed to create expense: %w", err)
		}
		sum.Expenses++
	}

	// Активный рейс Volvo, черновик без диспетчеризации и отмененный рейс
	dispatched := now.Add(-3 * time.Hour)
	cancelled := now.AddDate(0, 0, -5)
	current := []*domain.Trip{
		{VehicleID: volvo.ID, DriverID: ravi.ID, Origin: "Pune", Destination: "Hyderabad", CargoWeight: 14000, FuelCost: 900, Status: domain.TripOnTrip, CreatedAt: dispatched, DispatchedAt: &dispatched},
		{VehicleID: bolero.ID, DriverID: vikram.ID, Origin: "Mumbai", Destination: "Lonavala", CargoWeight: 700, FuelCost: 90, Status: domain.TripDraft, CreatedAt: now.Add(-30 * time.Hour)},
		{VehicleID: tata.ID, DriverID: sunita.ID, Origin: "Thane", Destination: "Vashi", CargoWeight: 300, FuelCost: 40, Status: domain.TripCancelled, CreatedAt: cancelled, CancelledAt: &cancelled},
	}
	for _, trip := range current {
		if err := s.createTrip(ctx, &sum, trip); err != nil {
			return sum, err
		}
	}

	resolved := now.AddDate(0, -2, 0)
	logs := []*domain.MaintenanceLog{
		{VehicleID: dost.ID, Issue: "Clutch plate replacement", Cost: 850, Status: domain.MaintenanceInProgress, CreatedAt: now.AddDate(0, 0, -2)},
		{VehicleID: bolero.ID, Issue: "Scheduled oil change", Cost: 120, Status: domain.MaintenanceDone, CreatedAt: resolved.Add(-24 * time.Hour), ResolvedAt: &resolved},
		{VehicleID: volvo.ID, Issue: "Brake pad inspection", Cost: 300, Status: domain.MaintenanceDone, CreatedAt: now.AddDate(0, -3, 0), ResolvedAt: &resolved},
	}
	for _, m := range logs {
		if err := s.store.Maintenance.Create(ctx, m); err != nil {
			return sum, fmt.Errorf("failed to create maintenance log: %w", err)
		}
		sum.Maintenance++
	}

	return sum, nil
}

func (s *Seeder) createTrip(ctx context.Context, sum *Summary, trip *domain.Trip) error {
	if err := s.store.Trips.Create(ctx, trip); err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	sum.Trips++
	return nil
}

func (s *Seeder) users(ctx context.Context) (int, error) {
	passwordHash, err := s.hasher.HashPassword(DemoPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	created := 0
	for _, a := range Accounts {
		user := &domain.User{Name: a.Name, Email: a.Email, Role: a.Role, PasswordHash: passwordHash}
		if err := s.store.Users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrUserAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("failed to create user %s: %w", a.Email, err)
		}
		created++
	}
	return created, nil
}
