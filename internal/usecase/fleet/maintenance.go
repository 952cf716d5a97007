package fleet

import (
	"context"
	"fmt"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

// LogMaintenanceRequest - запрос на открытие заявки на ремонт
type LogMaintenanceRequest struct {
	VehicleID uuid.UUID `json:"vehicleId" validate:"required"`
	Issue     string    `json:"issue" validate:"required"`
	Cost      float64   `json:"cost" validate:"gte=0"`
}

// UpdateMaintenanceStatusRequest - смена статуса заявки
type UpdateMaintenanceStatusRequest struct {
	Status domain.MaintenanceStatus `json:"status" validate:"required"`
}

// LogMaintenance открывает заявку и переводит машину в сервис
func (s *Service) LogMaintenance(ctx context.Context, req *LogMaintenanceRequest) (*domain.MaintenanceLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := &domain.MaintenanceLog{
		VehicleID: req.VehicleID,
		Issue:     req.Issue,
		Cost:      req.Cost,
		Status:    domain.MaintenanceNew,
	}
	if err := log.Validate(); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	next, err := vehicle.Status.SendToShop()
	if err != nil {
		return nil, err
	}
	undo := s.vehicleUndo(ctx, *vehicle)
	if err := s.setVehicleStatus(ctx, vehicle, next); err != nil {
		return nil, err
	}

	// Машина уже в сервисе: без заявки ее нужно вернуть как было
	if err := s.maintenanceRepo.Create(ctx, log); err != nil {
		undo()
		s.logger.Error("Failed to create maintenance log", map[string]interface{}{
			"vehicle_id": vehicle.ID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to create maintenance log: %w", err)
	}

	s.logger.Info("Maintenance logged", map[string]interface{}{
		"log_id":     log.ID,
		"vehicle_id": vehicle.ID,
	})

	log.Vehicle = vehicle
	return log, nil
}

// GetMaintenance возвращает заявку с машиной
func (s *Service) GetMaintenance(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error) {
	log, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.Vehicle, err = s.lookupVehicle(ctx, log.VehicleID); err != nil {
		return nil, err
	}
	return log, nil
}

// ListMaintenance возвращает заявки с присоединенными машинами
func (s *Service) ListMaintenance(ctx context.Context, filter repository.MaintenanceFilter) ([]*domain.MaintenanceLog, error) {
	logs, err := s.maintenanceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance logs: %w", err)
	}

	vehicles, err := s.vehicleRepo.List(ctx, repository.VehicleFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	vehicleByID := make(map[uuid.UUID]*domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		vehicleByID[v.ID] = v
	}

	for _, l := range logs {
		l.Vehicle = vehicleByID[l.VehicleID]
	}
	return logs, nil
}

// UpdateMaintenanceStatus двигает заявку New -> In Progress -> Done
func (s *Service) UpdateMaintenanceStatus(ctx context.Context, id uuid.UUID, status domain.MaintenanceStatus) (*domain.MaintenanceLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.advanceMaintenance(ctx, id, status)
}

// ResolveMaintenance закрывает заявку; машина выходит из сервиса,
// когда по ней не осталось открытых заявок
func (s *Service) ResolveMaintenance(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.advanceMaintenance(ctx, id, domain.MaintenanceDone)
}

func (s *Service) advanceMaintenance(ctx context.Context, id uuid.UUID, status domain.MaintenanceStatus) (*domain.MaintenanceLog, error) {
	log, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := log.Status.Advance(status)
	if err != nil {
		return nil, err
	}
	if next == log.Status {
		return log, nil
	}

	log.Status = next
	if next == domain.MaintenanceDone {
		now := s.now()
		log.ResolvedAt = &now
	}
	if err := s.maintenanceRepo.Update(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to update maintenance log: %w", err)
	}

	s.logger.Info("Maintenance status changed", map[string]interface{}{
		"log_id":     log.ID,
		"vehicle_id": log.VehicleID,
		"status":     log.Status,
	})

	if next == domain.MaintenanceDone {
		if err := s.returnFromShop(ctx, log.VehicleID); err != nil {
			return nil, err
		}
	}

	return log, nil
}

// returnFromShop пересчитывает статус машины после закрытия заявки
func (s *Service) returnFromShop(ctx context.Context, vehicleID uuid.UUID) error {
	vehicle, err := s.lookupVehicle(ctx, vehicleID)
	if err != nil || vehicle == nil {
		return err
	}

	openLogs, err := s.openLogCount(ctx, vehicleID)
	if err != nil {
		return err
	}
	onTrip, err := s.vehicleOnActiveTrip(ctx, vehicleID)
	if err != nil {
		return err
	}

	next, err := vehicle.Status.ReturnFromShop(openLogs, onTrip)
	if err != nil {
		return err
	}

	if openLogs == 0 && vehicle.LastServiceOdometer != vehicle.Odometer {
		vehicle.LastServiceOdometer = vehicle.Odometer
		if next == vehicle.Status {
			if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
				return fmt.Errorf("failed to update service odometer: %w", err)
			}
			return nil
		}
	}

	return s.setVehicleStatus(ctx, vehicle, next)
}
