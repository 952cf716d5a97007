package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/frontandrew/fleetflow/internal/usecase/dispatch"
	"github.com/google/uuid"
)

// CreateVehicleRequest - запрос на регистрацию машины
type CreateVehicleRequest struct {
	Model           string  `json:"model" validate:"required"`
	Plate           string  `json:"plate" validate:"required,max=20"`
	Type            string  `json:"type"`
	Capacity        float64 `json:"capacity" validate:"gt=0"`
	Odometer        float64 `json:"odometer" validate:"gte=0"`
	AcquisitionCost float64 `json:"acquisitionCost" validate:"gte=0"`
}

// UpdateVehicleRequest - частичное обновление; статус меняется отдельной операцией
type UpdateVehicleRequest struct {
	Model           *string  `json:"model,omitempty"`
	Plate           *string  `json:"plate,omitempty" validate:"omitempty,max=20"`
	Type            *string  `json:"type,omitempty"`
	Capacity        *float64 `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Odometer        *float64 `json:"odometer,omitempty" validate:"omitempty,gte=0"`
	AcquisitionCost *float64 `json:"acquisitionCost,omitempty" validate:"omitempty,gte=0"`
}

// CreateVehicle регистрирует машину со статусом Available
func (s *Service) CreateVehicle(ctx context.Context, req *CreateVehicleRequest) (*domain.Vehicle, error) {
	s.logger.Info("Creating new vehicle", map[string]interface{}{
		"plate": req.Plate,
	})

	vehicle := &domain.Vehicle{
		Model:               req.Model,
		Plate:               req.Plate,
		Type:                req.Type,
		Capacity:            req.Capacity,
		Odometer:            req.Odometer,
		AcquisitionCost:     req.AcquisitionCost,
		Status:              domain.VehicleAvailable,
		LastServiceOdometer: req.Odometer,
	}
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.vehicleRepo.GetByPlate(ctx, vehicle.Plate)
	if err != nil && !errors.Is(err, domain.ErrVehicleNotFound) {
		return nil, fmt.Errorf("failed to check existing vehicle: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Vehicle already exists", map[string]interface{}{
			"plate": vehicle.Plate,
		})
		return nil, domain.ErrVehicleAlreadyExists
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, domain.ErrVehicleAlreadyExists) {
			return nil, err
		}
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("Vehicle created successfully", map[string]interface{}{
		"vehicle_id": vehicle.ID,
	})

	return vehicle, nil
}

// GetVehicle возвращает машину по ID
func (s *Service) GetVehicle(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// ListVehicles возвращает машины по фильтру
func (s *Service) ListVehicles(ctx context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError("status", "oneof", "unknown vehicle status")
	}
	return s.vehicleRepo.List(ctx, filter)
}

// ListAvailableVehicles возвращает машины, которые можно отправить в рейс
func (s *Service) ListAvailableVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx, repository.VehicleFilter{Status: domain.VehicleAvailable})
}

// SuggestVehicles ранжирует свободные машины под вес груза
func (s *Service) SuggestVehicles(ctx context.Context, weight float64) ([]dispatch.Suggestion, error) {
	if weight <= 0 {
		return nil, domain.NewValidationError("weight", "gt", "weight must be greater than zero")
	}

	vehicles, err := s.ListAvailableVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available vehicles: %w", err)
	}

	return dispatch.SuggestOptimalVehicle(weight, vehicles), nil
}

// UpdateVehicle обновляет паспортные данные машины
func (s *Service) UpdateVehicle(ctx context.Context, id uuid.UUID, req *UpdateVehicleRequest) (*domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Plate != nil {
		vehicle.Plate = *req.Plate
	}
	if req.Type != nil {
		vehicle.Type = *req.Type
	}
	if req.Capacity != nil {
		vehicle.Capacity = *req.Capacity
	}
	if req.AcquisitionCost != nil {
		vehicle.AcquisitionCost = *req.AcquisitionCost
	}
	if req.Odometer != nil {
		if *req.Odometer < vehicle.Odometer {
			return nil, domain.ErrOdometerDecrease
		}
		vehicle.Odometer = *req.Odometer
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		if domain.KindOf(err) != domain.KindUnexpected {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.logger.Info("Vehicle updated", map[string]interface{}{
		"vehicle_id": vehicle.ID,
	})

	return vehicle, nil
}

// SetVehicleStatus переключает машину между Available и Idle
func (s *Service) SetVehicleStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) (*domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := vehicle.Status.SetManual(status)
	if err != nil {
		s.logger.Warn("Vehicle status change rejected", map[string]interface{}{
			"vehicle_id": id,
			"from":       vehicle.Status,
			"to":         status,
		})
		return nil, err
	}

	if err := s.setVehicleStatus(ctx, vehicle, next); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// DeleteVehicle удаляет машину, если она не в активном рейсе
func (s *Service) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.vehicleRepo.GetByID(ctx, id); err != nil {
		return err
	}

	onTrip, err := s.vehicleOnActiveTrip(ctx, id)
	if err != nil {
		return err
	}
	if onTrip {
		return domain.ErrVehicleOnTrip
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	s.logger.Info("Vehicle deleted", map[string]interface{}{
		"vehicle_id": id,
	})
	return nil
}
