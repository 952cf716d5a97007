package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

// DB - хранилище в памяти процесса, используется без внешней БД и в тестах
type DB struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]domain.User
	vehicles    map[uuid.UUID]domain.Vehicle
	drivers     map[uuid.UUID]domain.Driver
	trips       map[uuid.UUID]domain.Trip
	maintenance map[uuid.UUID]domain.MaintenanceLog
	expenses    map[uuid.UUID]domain.Expense
	revoked     map[string]time.Time

	now func() time.Time
}

// NewDB создает пустое хранилище
func NewDB() *DB {
	return &DB{
		users:       map[uuid.UUID]domain.User{},
		vehicles:    map[uuid.UUID]domain.Vehicle{},
		drivers:     map[uuid.UUID]domain.Driver{},
		trips:       map[uuid.UUID]domain.Trip{},
		maintenance: map[uuid.UUID]domain.MaintenanceLog{},
		expenses:    map[uuid.UUID]domain.Expense{},
		revoked:     map[string]time.Time{},
		now:         time.Now,
	}
}

// NewStore собирает все репозитории поверх одного DB
func NewStore(db *DB) *repository.Store {
	return &repository.Store{
		Users:       NewUserRepository(db),
		Vehicles:    NewVehicleRepository(db),
		Drivers:     NewDriverRepository(db),
		Trips:       NewTripRepository(db),
		Maintenance: NewMaintenanceRepository(db),
		Expenses:    NewExpenseRepository(db),
		Sessions:    NewSessionRepository(db),
		Ping:        func(ctx context.Context) error { return nil },
		Close:       func() {},
	}
}

// sortByCreated сортирует по дате создания, новые первыми
func sortByCreated[T any](items []*T, createdAt func(*T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
