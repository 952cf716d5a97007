package memory

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleRepository_PlateUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository(NewDB())

	first := &domain.Vehicle{Model: "Volvo FH", Plate: "ab-100", Capacity: 5000, Status: domain.VehicleAvailable}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, "AB-100", first.Plate)

	dup := &domain.Vehicle{Model: "MAN TGX", Plate: " AB-100", Capacity: 4000}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrVehicleAlreadyExists)

	found, err := repo.GetByPlate(ctx, "ab-100")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestVehicleRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository(NewDB())

	v := &domain.Vehicle{Model: "Volvo FH", Plate: "AB-101", Capacity: 5000, Status: domain.VehicleAvailable}
	require.NoError(t, repo.Create(ctx, v))

	got, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	got.Status = domain.VehicleInShop

	again, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleAvailable, again.Status)
}

func TestVehicleRepository_ListByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository(NewDB())

	require.NoError(t, repo.Create(ctx, &domain.Vehicle{Model: "A", Plate: "A-1", Capacity: 1, Status: domain.VehicleAvailable}))
	require.NoError(t, repo.Create(ctx, &domain.Vehicle{Model: "B", Plate: "B-1", Capacity: 1, Status: domain.VehicleInShop}))

	all, err := repo.List(ctx, repository.VehicleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := repo.List(ctx, repository.VehicleFilter{Status: domain.VehicleAvailable})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "A-1", available[0].Plate)
}

func TestTripRepository_Filter(t *testing.T) {
	ctx := context.Background()
	repo := NewTripRepository(NewDB())

	vehicleID := uuid.New()
	driverID := uuid.New()

	require.NoError(t, repo.Create(ctx, &domain.Trip{VehicleID: vehicleID, DriverID: driverID, Status: domain.TripOnTrip}))
	require.NoError(t, repo.Create(ctx, &domain.Trip{VehicleID: vehicleID, DriverID: uuid.New(), Status: domain.TripCompleted}))
	require.NoError(t, repo.Create(ctx, &domain.Trip{VehicleID: uuid.New(), DriverID: driverID, Status: domain.TripDraft}))

	active, err := repo.List(ctx, repository.TripFilter{VehicleID: &vehicleID, Statuses: domain.ActiveTripStatuses()})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	byDriver, err := repo.List(ctx, repository.TripFilter{DriverID: &driverID})
	require.NoError(t, err)
	assert.Len(t, byDriver, 2)
}

func TestMaintenanceRepository_OpenOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewMaintenanceRepository(NewDB())
	vehicleID := uuid.New()

	open := &domain.MaintenanceLog{VehicleID: vehicleID, Issue: "brakes", Status: domain.MaintenanceNew}
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, &domain.MaintenanceLog{VehicleID: vehicleID, Issue: "oil", Status: domain.MaintenanceDone}))

	logs, err := repo.List(ctx, repository.MaintenanceFilter{VehicleID: &vehicleID, OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, open.ID, logs[0].ID)
}

func TestSessionRepository_RevokeUntilExpiry(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return now }
	repo := NewSessionRepository(db)

	require.NoError(t, repo.Revoke(ctx, "jti-1", now.Add(time.Hour)))

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}
