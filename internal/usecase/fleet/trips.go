package fleet

import (
	"context"
	"fmt"
	"strings"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/metrics"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/frontandrew/fleetflow/internal/usecase/dispatch"
	"github.com/google/uuid"
)

// CreateTripRequest - запрос на создание рейса.
// Draft=true сохраняет черновик без блокировки машины и водителя.
type CreateTripRequest struct {
	VehicleID   uuid.UUID `json:"vehicleId" validate:"required"`
	DriverID    uuid.UUID `json:"driverId" validate:"required"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	CargoWeight float64   `json:"cargoWeight"`
	FuelCost    float64   `json:"fuelCost" validate:"gte=0"`
	Draft       bool      `json:"draft,omitempty"`
}

// UpdateTripRequest - правка черновика
type UpdateTripRequest struct {
	VehicleID   *uuid.UUID `json:"vehicleId,omitempty"`
	DriverID    *uuid.UUID `json:"driverId,omitempty"`
	Origin      *string    `json:"origin,omitempty"`
	Destination *string    `json:"destination,omitempty"`
	CargoWeight *float64   `json:"cargoWeight,omitempty"`
	FuelCost    *float64   `json:"fuelCost,omitempty" validate:"omitempty,gte=0"`
}

// CompleteTripRequest - завершение рейса с необязательным показанием одометра
type CompleteTripRequest struct {
	FinalOdometer *float64 `json:"finalOdometer,omitempty" validate:"omitempty,gte=0"`
}

// candidate собирает участников рейса для проверки правил
func (s *Service) candidate(ctx context.Context, trip *domain.Trip) (dispatch.Candidate, error) {
	vehicle, err := s.lookupVehicle(ctx, trip.VehicleID)
	if err != nil {
		return dispatch.Candidate{}, err
	}
	driver, err := s.lookupDriver(ctx, trip.DriverID)
	if err != nil {
		return dispatch.Candidate{}, err
	}

	busy := 0
	if driver != nil {
		trips, err := s.activeTrips(ctx, repository.TripFilter{DriverID: &driver.ID})
		if err != nil {
			return dispatch.Candidate{}, err
		}
		for _, t := range trips {
			if t.ID != trip.ID {
				busy++
			}
		}
	}

	return dispatch.Candidate{
		Vehicle:           vehicle,
		Driver:            driver,
		DriverActiveTrips: busy,
		CargoWeight:       trip.CargoWeight,
		Origin:            trip.Origin,
		Destination:       trip.Destination,
	}, nil
}

// checkDraft проверяет черновик: машина и водитель существуют, груз помещается, маршрут задан.
// Доступность проверяется только при отправке.
func checkDraft(c dispatch.Candidate) error {
	if c.Vehicle == nil {
		return domain.ErrVehicleNotFound
	}
	if c.Driver == nil {
		return domain.ErrDriverNotFound
	}
	if c.CargoWeight <= 0 {
		return domain.ErrInvalidCargoWeight
	}
	if c.CargoWeight > c.Vehicle.Capacity {
		return fmt.Errorf("%w: %.0f kg > %.0f kg", domain.ErrCargoExceedsCapacity, c.CargoWeight, c.Vehicle.Capacity)
	}
	if strings.TrimSpace(c.Origin) == "" || strings.TrimSpace(c.Destination) == "" {
		return domain.ErrMissingRoute
	}
	return nil
}

// occupy переводит машину в рейс; вызывается под mu после успешной проверки.
// Возвращает откат на случай, если рейс затем не сохранится.
func (s *Service) occupy(ctx context.Context, vehicle *domain.Vehicle) (func(), error) {
	next, err := vehicle.Status.Dispatch()
	if err != nil {
		return nil, err
	}
	undo := s.vehicleUndo(ctx, *vehicle)
	if err := s.setVehicleStatus(ctx, vehicle, next); err != nil {
		return nil, err
	}
	return undo, nil
}

// release возвращает машину после завершения или отмены рейса.
// Возвращает откат статуса и одометра на случай, если рейс затем не сохранится.
func (s *Service) release(ctx context.Context, vehicleID uuid.UUID, finalOdometer *float64) (func(), error) {
	vehicle, err := s.lookupVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		s.logger.Warn("Released trip references a missing vehicle", map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		return noUndo, nil
	}

	openLogs, err := s.openLogCount(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	next, err := vehicle.Status.Release(openLogs)
	if err != nil {
		return nil, err
	}

	undo := s.vehicleUndo(ctx, *vehicle)

	if finalOdometer != nil && *finalOdometer != vehicle.Odometer {
		vehicle.Odometer = *finalOdometer
		if next == vehicle.Status {
			if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
				return nil, fmt.Errorf("failed to update odometer: %w", err)
			}
			return undo, nil
		}
	}

	if err := s.setVehicleStatus(ctx, vehicle, next); err != nil {
		return nil, err
	}
	return undo, nil
}

// saveTrip сохраняет рейс; при ошибке откатывает уже сохраненную машину
func (s *Service) saveTrip(ctx context.Context, trip *domain.Trip, undo func()) error {
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		undo()
		s.logger.Error("Failed to update trip", map[string]interface{}{
			"trip_id": trip.ID,
			"status":  trip.Status,
			"error":   err.Error(),
		})
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

func (s *Service) transitioned(trip *domain.Trip) {
	metrics.TripTransitions.WithLabelValues(string(trip.Status)).Inc()
	s.logger.Info("Trip status changed", map[string]interface{}{
		"trip_id":    trip.ID,
		"vehicle_id": trip.VehicleID,
		"driver_id":  trip.DriverID,
		"status":     trip.Status,
	})
}

// CreateTrip проверяет правила допуска и создает рейс.
// При отказе ни одна сущность не меняется.
func (s *Service) CreateTrip(ctx context.Context, req *CreateTripRequest) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip := &domain.Trip{
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		Origin:      strings.TrimSpace(req.Origin),
		Destination: strings.TrimSpace(req.Destination),
		CargoWeight: req.CargoWeight,
		FuelCost:    req.FuelCost,
		Status:      domain.TripDispatched,
	}
	if req.Draft {
		trip.Status = domain.TripDraft
	}

	c, err := s.candidate(ctx, trip)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"vehicle_id":   req.VehicleID,
		"driver_id":    req.DriverID,
		"cargo_weight": req.CargoWeight,
	}

	undo := noUndo
	if req.Draft {
		if err := checkDraft(c); err != nil {
			s.rejected(err, fields)
			return nil, err
		}
	} else {
		if err := dispatch.Validate(c, s.now()); err != nil {
			s.rejected(err, fields)
			return nil, err
		}
		if undo, err = s.occupy(ctx, c.Vehicle); err != nil {
			return nil, err
		}
		now := s.now()
		trip.DispatchedAt = &now
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		undo()
		s.logger.Error("Failed to create trip", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.transitioned(trip)
	trip.Vehicle, trip.Driver = c.Vehicle, c.Driver
	return trip, nil
}

// GetTrip возвращает рейс с машиной и водителем
func (s *Service) GetTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip.Vehicle, err = s.lookupVehicle(ctx, trip.VehicleID); err != nil {
		return nil, err
	}
	if trip.Driver, err = s.lookupDriver(ctx, trip.DriverID); err != nil {
		return nil, err
	}
	return trip, nil
}

// ListTrips возвращает рейсы с присоединенными машинами и водителями
func (s *Service) ListTrips(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	for _, status := range filter.Statuses {
		if !status.IsValid() {
			return nil, domain.NewValidationError("status", "oneof", "unknown trip status")
		}
	}

	trips, err := s.tripRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	vehicles, err := s.vehicleRepo.List(ctx, repository.VehicleFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	drivers, err := s.driverRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	vehicleByID := make(map[uuid.UUID]*domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		vehicleByID[v.ID] = v
	}
	driverByID := make(map[uuid.UUID]*domain.Driver, len(drivers))
	for _, d := range drivers {
		driverByID[d.ID] = d
	}

	for _, t := range trips {
		t.Vehicle = vehicleByID[t.VehicleID]
		t.Driver = driverByID[t.DriverID]
	}
	return trips, nil
}

// UpdateTrip правит черновик рейса
func (s *Service) UpdateTrip(ctx context.Context, id uuid.UUID, req *UpdateTripRequest) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip.Status != domain.TripDraft {
		return nil, domain.ErrTripNotEditable
	}

	if req.VehicleID != nil {
		trip.VehicleID = *req.VehicleID
	}
	if req.DriverID != nil {
		trip.DriverID = *req.DriverID
	}
	if req.Origin != nil {
		trip.Origin = strings.TrimSpace(*req.Origin)
	}
	if req.Destination != nil {
		trip.Destination = strings.TrimSpace(*req.Destination)
	}
	if req.CargoWeight != nil {
		trip.CargoWeight = *req.CargoWeight
	}
	if req.FuelCost != nil {
		trip.FuelCost = *req.FuelCost
	}

	c, err := s.candidate(ctx, trip)
	if err != nil {
		return nil, err
	}
	if err := checkDraft(c); err != nil {
		return nil, err
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	trip.Vehicle, trip.Driver = c.Vehicle, c.Driver
	return trip, nil
}

// DispatchTrip отправляет черновик: Draft -> Dispatched
func (s *Service) DispatchTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	return s.activate(ctx, id, domain.TripStatus.Dispatch)
}

// StartTrip начинает рейс: Dispatched -> On Trip (черновик проходит проверку как при отправке)
func (s *Service) StartTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	return s.activate(ctx, id, domain.TripStatus.Start)
}

func (s *Service) activate(ctx context.Context, id uuid.UUID, transition func(domain.TripStatus) (domain.TripStatus, error)) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := transition(trip.Status)
	if err != nil {
		return nil, err
	}

	// Черновик еще не удерживает машину: проверяем правила и занимаем ее
	undo := noUndo
	if trip.Status == domain.TripDraft {
		c, err := s.candidate(ctx, trip)
		if err != nil {
			return nil, err
		}
		if err := dispatch.Validate(c, s.now()); err != nil {
			s.rejected(err, map[string]interface{}{
				"trip_id":    trip.ID,
				"vehicle_id": trip.VehicleID,
				"driver_id":  trip.DriverID,
			})
			return nil, err
		}
		if undo, err = s.occupy(ctx, c.Vehicle); err != nil {
			return nil, err
		}
		now := s.now()
		trip.DispatchedAt = &now
	}

	trip.Status = next
	if err := s.saveTrip(ctx, trip, undo); err != nil {
		return nil, err
	}

	s.transitioned(trip)
	return trip, nil
}

// CompleteTrip завершает рейс и освобождает машину и водителя.
// Итоговый одометр не может быть меньше текущего.
func (s *Service) CompleteTrip(ctx context.Context, id uuid.UUID, req *CompleteTripRequest) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := trip.Status.Complete()
	if err != nil {
		return nil, err
	}

	var finalOdometer *float64
	if req != nil && req.FinalOdometer != nil {
		vehicle, err := s.lookupVehicle(ctx, trip.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle != nil && *req.FinalOdometer < vehicle.Odometer {
			return nil, fmt.Errorf("%w: %.0f km < %.0f km", domain.ErrInvalidFinalOdometer, *req.FinalOdometer, vehicle.Odometer)
		}
		finalOdometer = req.FinalOdometer
	}

	undo, err := s.release(ctx, trip.VehicleID, finalOdometer)
	if err != nil {
		return nil, err
	}

	now := s.now()
	trip.Status = next
	trip.CompletedAt = &now
	trip.FinalOdometer = finalOdometer
	if err := s.saveTrip(ctx, trip, undo); err != nil {
		return nil, err
	}

	s.transitioned(trip)
	return trip, nil
}

// CancelTrip отменяет нетерминальный рейс без изменения одометра
func (s *Service) CancelTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasActive := trip.Status.IsActive()
	next, err := trip.Status.Cancel()
	if err != nil {
		return nil, err
	}

	undo := noUndo
	if wasActive {
		if undo, err = s.release(ctx, trip.VehicleID, nil); err != nil {
			return nil, err
		}
	}

	now := s.now()
	trip.Status = next
	trip.CancelledAt = &now
	if err := s.saveTrip(ctx, trip, undo); err != nil {
		return nil, err
	}

	s.transitioned(trip)
	return trip, nil
}
