// Package fleet реализует операции над парком: справочники машин, водителей,
// расходов и жизненный цикл рейсов и заявок на ремонт.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/metrics"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/frontandrew/fleetflow/internal/usecase/dispatch"
	"github.com/google/uuid"
)

// Service содержит бизнес-логику автопарка.
// Операции, меняющие статусы нескольких сущностей, выполняются под mu.
type Service struct {
	vehicleRepo     repository.VehicleRepository
	driverRepo      repository.DriverRepository
	tripRepo        repository.TripRepository
	maintenanceRepo repository.MaintenanceRepository
	expenseRepo     repository.ExpenseRepository
	logger          logger.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewService создает новый экземпляр FleetService
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

// activeTrips возвращает активные рейсы машины или водителя
func (s *Service) activeTrips(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	filter.Statuses = domain.ActiveTripStatuses()
	trips, err := s.tripRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list active trips: %w", err)
	}
	return trips, nil
}

func (s *Service) vehicleOnActiveTrip(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	trips, err := s.activeTrips(ctx, repository.TripFilter{VehicleID: &vehicleID})
	return len(trips) > 0, err
}

func (s *Service) driverOnActiveTrip(ctx context.Context, driverID uuid.UUID) (bool, error) {
	trips, err := s.activeTrips(ctx, repository.TripFilter{DriverID: &driverID})
	return len(trips) > 0, err
}

func (s *Service) openLogCount(ctx context.Context, vehicleID uuid.UUID) (int, error) {
	logs, err := s.maintenanceRepo.List(ctx, repository.MaintenanceFilter{VehicleID: &vehicleID, OpenOnly: true})
	if err != nil {
		return 0, fmt.Errorf("failed to list open maintenance logs: %w", err)
	}
	return len(logs), nil
}

// setVehicleStatus сохраняет новый статус машины и пишет метрику перехода
func (s *Service) setVehicleStatus(ctx context.Context, vehicle *domain.Vehicle, next domain.VehicleStatus) error {
	prev := vehicle.Status
	if prev == next {
		return nil
	}

	vehicle.Status = next
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		vehicle.Status = prev
		return fmt.Errorf("failed to update vehicle status: %w", err)
	}

	metrics.VehicleStatusChanges.WithLabelValues(string(prev), string(next)).Inc()
	return nil
}

// vehicleUndo возвращает откат: запись сохраненной копии машины обратно.
// Нужен, когда статус машины уже сохранен, а запись рейса или заявки не удалась.
func (s *Service) vehicleUndo(ctx context.Context, saved domain.Vehicle) func() {
	return func() {
		if err := s.vehicleRepo.Update(ctx, &saved); err != nil {
			s.logger.Error("Failed to roll back vehicle", map[string]interface{}{
				"vehicle_id": saved.ID,
				"status":     saved.Status,
				"error":      err.Error(),
			})
		}
	}
}

func noUndo() {}

// lookupVehicle возвращает nil без ошибки, если машина не найдена
func (s *Service) lookupVehicle(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrVehicleNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return v, nil
}

// lookupDriver возвращает nil без ошибки, если водитель не найден
func (s *Service) lookupDriver(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	d, err := s.driverRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrDriverNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return d, nil
}

// rejected логирует отказ правила допуска и считает его в метриках
func (s *Service) rejected(err error, fields map[string]interface{}) {
	var ruleErr *dispatch.RuleError
	if errors.As(err, &ruleErr) {
		metrics.DispatchRejections.WithLabelValues(string(ruleErr.Reason)).Inc()
		fields["reason"] = ruleErr.Reason
	}
	fields["error"] = err.Error()
	s.logger.Warn("Trip rejected", fields)
}
