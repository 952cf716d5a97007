package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/repository"
)

// Service собирает уведомления из текущего состояния хранилища
type Service struct {
	driverRepo  repository.DriverRepository
	vehicleRepo repository.VehicleRepository
	tripRepo    repository.TripRepository
	thresholds  Thresholds
	logger      logger.Logger
	now         func() time.Time
}

// NewService создает новый экземпляр AlertService
func NewService(
	driverRepo repository.DriverRepository,
	vehicleRepo repository.VehicleRepository,
	tripRepo repository.TripRepository,
	thresholds Thresholds,
	logger logger.Logger,
) *Service {
	return &Service{
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		tripRepo:    tripRepo,
		thresholds:  thresholds,
		logger:      logger,
		now:         time.Now,
	}
}

// ListAlerts пересчитывает уведомления на текущий момент
func (s *Service) ListAlerts(ctx context.Context) ([]domain.Alert, error) {
	drivers, err := s.driverRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	vehicles, err := s.vehicleRepo.List(ctx, repository.VehicleFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	drafts, err := s.tripRepo.List(ctx, repository.TripFilter{Statuses: []domain.TripStatus{domain.TripDraft}})
	if err != nil {
		return nil, fmt.Errorf("failed to list draft trips: %w", err)
	}

	alerts := Derive(State{Drivers: drivers, Vehicles: vehicles, Trips: drafts}, s.now(), s.thresholds)

	s.logger.Debug("Alerts derived", map[string]interface{}{
		"count": len(alerts),
	})

	return alerts, nil
}
