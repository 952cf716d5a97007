package http

import (
	"context"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/jwt"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/frontandrew/fleetflow/internal/usecase/analytics"
	"github.com/frontandrew/fleetflow/internal/usecase/auth"
	"github.com/frontandrew/fleetflow/internal/usecase/dispatch"
	"github.com/frontandrew/fleetflow/internal/usecase/fleet"
	"github.com/google/uuid"
)

// AuthService - операции аутентификации, нужные handler'ам
type AuthService interface {
	Register(ctx context.Context, req *auth.RegisterRequest) (*auth.AuthResponse, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
}

// VehicleService - операции с машинами
type VehicleService interface {
	CreateVehicle(ctx context.Context, req *fleet.CreateVehicleRequest) (*domain.Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, error)
	ListAvailableVehicles(ctx context.Context) ([]*domain.Vehicle, error)
	SuggestVehicles(ctx context.Context, weight float64) ([]dispatch.Suggestion, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, req *fleet.UpdateVehicleRequest) (*domain.Vehicle, error)
	SetVehicleStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id uuid.UUID) error
}

// DriverService - операции с водителями
type DriverService interface {
	CreateDriver(ctx context.Context, req *fleet.CreateDriverRequest) (*domain.Driver, error)
	GetDriver(ctx context.Context, id uuid.UUID) (*domain.Driver, error)
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
	UpdateDriver(ctx context.Context, id uuid.UUID, req *fleet.UpdateDriverRequest) (*domain.Driver, error)
	SetDriverStatus(ctx context.Context, id uuid.UUID, status domain.DriverStatus) (*domain.Driver, error)
	DeleteDriver(ctx context.Context, id uuid.UUID) error
}

// TripService - операции с рейсами
type TripService interface {
	CreateTrip(ctx context.Context, req *fleet.CreateTripRequest) (*domain.Trip, error)
	GetTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	ListTrips(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, req *fleet.UpdateTripRequest) (*domain.Trip, error)
	DispatchTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	StartTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	CompleteTrip(ctx context.Context, id uuid.UUID, req *fleet.CompleteTripRequest) (*domain.Trip, error)
	CancelTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
}

// MaintenanceService - операции с заявками на ремонт
type MaintenanceService interface {
	LogMaintenance(ctx context.Context, req *fleet.LogMaintenanceRequest) (*domain.MaintenanceLog, error)
	GetMaintenance(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error)
	ListMaintenance(ctx context.Context, filter repository.MaintenanceFilter) ([]*domain.MaintenanceLog, error)
	UpdateMaintenanceStatus(ctx context.Context, id uuid.UUID, status domain.MaintenanceStatus) (*domain.MaintenanceLog, error)
	ResolveMaintenance(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error)
}

// ExpenseService - операции с расходами
type ExpenseService interface {
	CreateExpense(ctx context.Context, req *fleet.CreateExpenseRequest) (*domain.Expense, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*domain.Expense, error)
	ListExpenses(ctx context.Context) ([]*domain.Expense, error)
}

// AlertService - лента уведомлений
type AlertService interface {
	ListAlerts(ctx context.Context) ([]domain.Alert, error)
}

// AnalyticsService - отчеты
type AnalyticsService interface {
	Monthly(ctx context.Context) ([]analytics.MonthlySummary, error)
	ROI(ctx context.Context) ([]analytics.VehicleROI, error)
	FuelEfficiency(ctx context.Context) (analytics.FuelEfficiencyTrend, error)
	KPIs(ctx context.Context) (analytics.KPIs, error)
	Costliest(ctx context.Context, limit int) ([]analytics.VehicleCost, error)
}
