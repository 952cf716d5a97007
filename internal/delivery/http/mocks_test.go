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
	"github.com/stretchr/testify/mock"
)

// MockAuthService - мок для auth service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.AuthResponse), args.Error(1)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *jwt.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

// MockFleetService - мок для всех операций с парком
type MockFleetService struct {
	mock.Mock
}

func (m *MockFleetService) CreateVehicle(ctx context.Context, req *fleet.CreateVehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockFleetService) GetVehicle(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockFleetService) ListVehicles(ctx context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockFleetService) ListAvailableVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockFleetService) SuggestVehicles(ctx context.Context, weight float64) ([]dispatch.Suggestion, error) {
	args := m.Called(ctx, weight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dispatch.Suggestion), args.Error(1)
}

func (m *MockFleetService) UpdateVehicle(ctx context.Context, id uuid.UUID, req *fleet.UpdateVehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockFleetService) SetVehicleStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) (*domain.Vehicle, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockFleetService) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFleetService) CreateDriver(ctx context.Context, req *fleet.CreateDriverRequest) (*domain.Driver, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockFleetService) GetDriver(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockFleetService) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Driver), args.Error(1)
}

func (m *MockFleetService) UpdateDriver(ctx context.Context, id uuid.UUID, req *fleet.UpdateDriverRequest) (*domain.Driver, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockFleetService) SetDriverStatus(ctx context.Context, id uuid.UUID, status domain.DriverStatus) (*domain.Driver, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockFleetService) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFleetService) CreateTrip(ctx context.Context, req *fleet.CreateTripRequest) (*domain.Trip, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockFleetService) GetTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockFleetService) ListTrips(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Trip), args.Error(1)
}

func (m *MockFleetService) UpdateTrip(ctx context.Context, id uuid.UUID, req *fleet.UpdateTripRequest) (*domain.Trip, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockFleetService) DispatchTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	return m.tripResult(m.Called(ctx, id))
}

func (m *MockFleetService) StartTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	return m.tripResult(m.Called(ctx, id))
}

func (m *MockFleetService) CancelTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	return m.tripResult(m.Called(ctx, id))
}

func (m *MockFleetService) CompleteTrip(ctx context.Context, id uuid.UUID, req *fleet.CompleteTripRequest) (*domain.Trip, error) {
	return m.tripResult(m.Called(ctx, id, req))
}

func (m *MockFleetService) tripResult(args mock.Arguments) (*domain.Trip, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockFleetService) LogMaintenance(ctx context.Context, req *fleet.LogMaintenanceRequest) (*domain.MaintenanceLog, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceLog), args.Error(1)
}

func (m *MockFleetService) GetMaintenance(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceLog), args.Error(1)
}

func (m *MockFleetService) ListMaintenance(ctx context.Context, filter repository.MaintenanceFilter) ([]*domain.MaintenanceLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MaintenanceLog), args.Error(1)
}

func (m *MockFleetService) UpdateMaintenanceStatus(ctx context.Context, id uuid.UUID, status domain.MaintenanceStatus) (*domain.MaintenanceLog, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceLog), args.Error(1)
}

func (m *MockFleetService) ResolveMaintenance(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceLog), args.Error(1)
}

func (m *MockFleetService) CreateExpense(ctx context.Context, req *fleet.CreateExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockFleetService) GetExpense(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockFleetService) ListExpenses(ctx context.Context) ([]*domain.Expense, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Expense), args.Error(1)
}

// MockReportService - мок для уведомлений и аналитики
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ListAlerts(ctx context.Context) ([]domain.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Alert), args.Error(1)
}

func (m *MockReportService) Monthly(ctx context.Context) ([]analytics.MonthlySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.MonthlySummary), args.Error(1)
}

func (m *MockReportService) ROI(ctx context.Context) ([]analytics.VehicleROI, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.VehicleROI), args.Error(1)
}

func (m *MockReportService) FuelEfficiency(ctx context.Context) (analytics.FuelEfficiencyTrend, error) {
	args := m.Called(ctx)
	return args.Get(0).(analytics.FuelEfficiencyTrend), args.Error(1)
}

func (m *MockReportService) KPIs(ctx context.Context) (analytics.KPIs, error) {
	args := m.Called(ctx)
	return args.Get(0).(analytics.KPIs), args.Error(1)
}

func (m *MockReportService) Costliest(ctx context.Context, limit int) ([]analytics.VehicleCost, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.VehicleCost), args.Error(1)
}
