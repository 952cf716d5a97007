package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/repository"
	"golang.org/x/sync/errgroup"
)

// DefaultCostliestLimit - размер выборки самых затратных машин по умолчанию
const DefaultCostliestLimit = 5

// Service строит отчеты поверх репозиториев
type Service struct {
	vehicleRepo     repository.VehicleRepository
	driverRepo      repository.DriverRepository
	tripRepo        repository.TripRepository
	maintenanceRepo repository.MaintenanceRepository
	expenseRepo     repository.ExpenseRepository
	logger          logger.Logger
	now             func() time.Time
}

// NewService создает новый экземпляр AnalyticsService
func NewService(store *repository.Store, logger logger.Logger) *Service {
	return &Service{
		vehicleRepo:     store.Vehicles,
		driverRepo:      store.Drivers,
		tripRepo:        store.Trips,
		maintenanceRepo: store.Maintenance,
		expenseRepo:     store.Expenses,
		logger:          logger,
		now:             time.Now,
	}
}

// snapshot читает все коллекции параллельно
func (s *Service) snapshot(ctx context.Context) (Dataset, error) {
	var data Dataset
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		data.Vehicles, err = s.vehicleRepo.List(ctx, repository.VehicleFilter{})
		return wrap("vehicles", err)
	})
	g.Go(func() (err error) {
		data.Drivers, err = s.driverRepo.List(ctx)
		return wrap("drivers", err)
	})
	g.Go(func() (err error) {
		data.Trips, err = s.tripRepo.List(ctx, repository.TripFilter{})
		return wrap("trips", err)
	})
	g.Go(func() (err error) {
		data.Maintenance, err = s.maintenanceRepo.List(ctx, repository.MaintenanceFilter{})
		return wrap("maintenance logs", err)
	})
	g.Go(func() (err error) {
		data.Expenses, err = s.expenseRepo.List(ctx)
		return wrap("expenses", err)
	})

	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}
	return data, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", what, err)
	}
	return nil
}

// Monthly возвращает помесячную финансовую сводку
func (s *Service) Monthly(ctx context.Context) ([]MonthlySummary, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return MonthlySummaries(data), nil
}

// ROI возвращает окупаемость по машинам
func (s *Service) ROI(ctx context.Context) ([]VehicleROI, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return VehicleROIs(data), nil
}

// FuelEfficiency возвращает тренд расхода топлива
func (s *Service) FuelEfficiency(ctx context.Context) (FuelEfficiencyTrend, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return FuelEfficiencyTrend{}, err
	}
	return FuelEfficiency(data), nil
}

// KPIs возвращает оперативные показатели парка
func (s *Service) KPIs(ctx context.Context) (KPIs, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return KPIs{}, err
	}

	now := s.now()
	return FleetKPIs(data, func(d *domain.Driver) bool { return d.LicenseValid(now) }), nil
}

// Costliest возвращает limit самых затратных машин
func (s *Service) Costliest(ctx context.Context, limit int) ([]VehicleCost, error) {
	if limit <= 0 {
		limit = DefaultCostliestLimit
	}

	data, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := CostliestVehicles(data, limit)
	s.logger.Debug("Costliest vehicles computed", map[string]interface{}{
		"limit": limit,
		"count": len(result),
	})
	return result, nil
}
