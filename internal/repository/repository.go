package repository

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// VehicleFilter - условия выборки машин
type VehicleFilter struct {
	Status domain.VehicleStatus
}

// VehicleRepository определяет методы для работы с машинами
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByPlate возвращает машину по нормализованному номеру
	GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)

	// List возвращает машины по фильтру, сортировка по дате создания
	List(ctx context.Context, filter VehicleFilter) ([]*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DriverRepository определяет методы для работы с водителями
type DriverRepository interface {
	Create(ctx context.Context, driver *domain.Driver) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error)
	GetByLicense(ctx context.Context, license string) (*domain.Driver, error)
	List(ctx context.Context) ([]*domain.Driver, error)
	Update(ctx context.Context, driver *domain.Driver) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TripFilter - условия выборки рейсов; пустые поля не фильтруют
type TripFilter struct {
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID
	Statuses  []domain.TripStatus
}

// TripRepository определяет методы для работы с рейсами
type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	List(ctx context.Context, filter TripFilter) ([]*domain.Trip, error)
	Update(ctx context.Context, trip *domain.Trip) error
}

// MaintenanceFilter - условия выборки заявок на ремонт
type MaintenanceFilter struct {
	VehicleID *uuid.UUID
	OpenOnly  bool
}

// MaintenanceRepository определяет методы для работы с заявками на ремонт
type MaintenanceRepository interface {
	Create(ctx context.Context, log *domain.MaintenanceLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error)
	List(ctx context.Context, filter MaintenanceFilter) ([]*domain.MaintenanceLog, error)
	Update(ctx context.Context, log *domain.MaintenanceLog) error
}

// ExpenseRepository определяет методы для работы с расходами
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error)
	List(ctx context.Context) ([]*domain.Expense, error)
}

// SessionRepository хранит отозванные токены до истечения их срока
type SessionRepository interface {
	// Revoke отзывает токен с идентификатором jti до момента until
	Revoke(ctx context.Context, jti string, until time.Time) error

	// IsRevoked проверяет, отозван ли токен
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Store объединяет репозитории одного хранилища
type Store struct {
	Users       UserRepository
	Vehicles    VehicleRepository
	Drivers     DriverRepository
	Trips       TripRepository
	Maintenance MaintenanceRepository
	Expenses    ExpenseRepository
	Sessions    SessionRepository

	// Ping проверяет доступность хранилища
	Ping func(ctx context.Context) error

	// Close освобождает подключения
	Close func()
}
