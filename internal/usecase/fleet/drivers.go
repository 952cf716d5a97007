package fleet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/google/uuid"
)

// CreateDriverRequest - запрос на добавление водителя
type CreateDriverRequest struct {
	Name           string              `json:"name" validate:"required"`
	License        string              `json:"license" validate:"required"`
	LicenseExpiry  time.Time           `json:"licenseExpiry" validate:"required"`
	Type           string              `json:"type"`
	CompletionRate float64             `json:"completionRate" validate:"gte=0,lte=100"`
	SafetyScore    *float64            `json:"safetyScore,omitempty" validate:"omitempty,gte=0,lte=100"`
	Complaints     int                 `json:"complaints" validate:"gte=0"`
	Status         domain.DriverStatus `json:"status,omitempty"`
}

// UpdateDriverRequest - частичное обновление профиля водителя
type UpdateDriverRequest struct {
	Name           *string    `json:"name,omitempty"`
	License        *string    `json:"license,omitempty"`
	LicenseExpiry  *time.Time `json:"licenseExpiry,omitempty"`
	Type           *string    `json:"type,omitempty"`
	CompletionRate *float64   `json:"completionRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	SafetyScore    *float64   `json:"safetyScore,omitempty" validate:"omitempty,gte=0,lte=100"`
	Complaints     *int       `json:"complaints,omitempty" validate:"omitempty,gte=0"`
}

// CreateDriver добавляет водителя; просроченные права не принимаются
func (s *Service) CreateDriver(ctx context.Context, req *CreateDriverRequest) (*domain.Driver, error) {
	s.logger.Info("Creating new driver", map[string]interface{}{
		"license": req.License,
	})

	driver := &domain.Driver{
		Name:           req.Name,
		License:        req.License,
		LicenseExpiry:  req.LicenseExpiry,
		Type:           req.Type,
		CompletionRate: req.CompletionRate,
		SafetyScore:    domain.DefaultSafetyScore,
		Complaints:     req.Complaints,
		Status:         req.Status,
	}
	if req.SafetyScore != nil {
		driver.SafetyScore = *req.SafetyScore
	}
	if driver.Type == "" {
		driver.Type = domain.LicenseLight
	}

	if err := driver.Validate(); err != nil {
		return nil, err
	}
	if !driver.LicenseValid(s.now()) {
		return nil, domain.NewValidationError("licenseExpiry", "future", "license is already expired")
	}

	existing, err := s.driverRepo.GetByLicense(ctx, driver.License)
	if err != nil && !errors.Is(err, domain.ErrDriverNotFound) {
		return nil, fmt.Errorf("failed to check existing driver: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Driver already exists", map[string]interface{}{
			"license": driver.License,
		})
		return nil, domain.ErrDriverAlreadyExists
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		if errors.Is(err, domain.ErrDriverAlreadyExists) {
			return nil, err
		}
		s.logger.Error("Failed to create driver", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	s.logger.Info("Driver created successfully", map[string]interface{}{
		"driver_id": driver.ID,
	})

	return driver, nil
}

// GetDriver возвращает водителя по ID
func (s *Service) GetDriver(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	return s.driverRepo.GetByID(ctx, id)
}

// ListDrivers возвращает всех водителей
func (s *Service) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.List(ctx)
}

// UpdateDriver обновляет профиль; водитель в рейсе заблокирован
func (s *Service) UpdateDriver(ctx context.Context, id uuid.UUID, req *UpdateDriverRequest) (*domain.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	onTrip, err := s.driverOnActiveTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	if onTrip {
		return nil, domain.ErrDriverOnTrip
	}

	if req.Name != nil {
		driver.Name = *req.Name
	}
	if req.License != nil {
		driver.License = *req.License
	}
	if req.LicenseExpiry != nil {
		driver.LicenseExpiry = *req.LicenseExpiry
	}
	if req.Type != nil {
		driver.Type = *req.Type
	}
	if req.CompletionRate != nil {
		driver.CompletionRate = *req.CompletionRate
	}
	if req.SafetyScore != nil {
		driver.SafetyScore = *req.SafetyScore
	}
	if req.Complaints != nil {
		driver.Complaints = *req.Complaints
	}

	if err := driver.Validate(); err != nil {
		return nil, err
	}

	if err := s.driverRepo.Update(ctx, driver); err != nil {
		if domain.KindOf(err) != domain.KindUnexpected {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update driver: %w", err)
	}

	s.logger.Info("Driver updated", map[string]interface{}{
		"driver_id": driver.ID,
	})

	return driver, nil
}

// SetDriverStatus меняет статус водителя; во время активного рейса - Conflict
func (s *Service) SetDriverStatus(ctx context.Context, id uuid.UUID, status domain.DriverStatus) (*domain.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	onTrip, err := s.driverOnActiveTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := driver.Status
	if err := driver.ChangeStatus(status, onTrip); err != nil {
		s.logger.Warn("Driver status change rejected", map[string]interface{}{
			"driver_id": id,
			"to":        status,
			"error":     err.Error(),
		})
		return nil, err
	}

	if err := s.driverRepo.Update(ctx, driver); err != nil {
		return nil, fmt.Errorf("failed to update driver status: %w", err)
	}

	s.logger.Info("Driver status changed", map[string]interface{}{
		"driver_id": id,
		"from":      prev,
		"to":        driver.Status,
	})

	return driver, nil
}

// DeleteDriver удаляет водителя, если он не в активном рейсе
func (s *Service) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.driverRepo.GetByID(ctx, id); err != nil {
		return err
	}

	onTrip, err := s.driverOnActiveTrip(ctx, id)
	if err != nil {
		return err
	}
	if onTrip {
		return domain.ErrDriverOnTrip
	}

	if err := s.driverRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}

	s.logger.Info("Driver deleted", map[string]interface{}{
		"driver_id": id,
	})
	return nil
}
