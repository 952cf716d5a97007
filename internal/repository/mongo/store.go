package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Имена коллекций
const (
	usersCollection       = "users"
	vehiclesCollection    = "vehicles"
	driversCollection     = "drivers"
	tripsCollection       = "trips"
	maintenanceCollection = "maintenance_logs"
	expensesCollection    = "expenses"
	revokedCollection     = "revoked_tokens"
)

// newestFirst - сортировка выборок по дате создания
var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

// EnsureIndexes создает уникальные и служебные индексы; повторный вызов безопасен
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		vehiclesCollection: {
			{Keys: bson.D{{Key: "plate", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		driversCollection: {
			{Keys: bson.D{{Key: "license", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		tripsCollection: {
			{Keys: bson.D{{Key: "vehicle_id", Value: 1}}},
			{Keys: bson.D{{Key: "driver_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		maintenanceCollection: {
			{Keys: bson.D{{Key: "vehicle_id", Value: 1}}},
		},
		revokedCollection: {
			// Mongo сам удаляет документы после expires_at
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
	}
	return nil
}

// NewStore собирает репозитории поверх базы dbName
func NewStore(client *mongo.Client, dbName string) *repository.Store {
	db := client.Database(dbName)
	return &repository.Store{
		Users:       NewUserRepository(db),
		Vehicles:    NewVehicleRepository(db),
		Drivers:     NewDriverRepository(db),
		Trips:       NewTripRepository(db),
		Maintenance: NewMaintenanceRepository(db),
		Expenses:    NewExpenseRepository(db),
		Sessions:    NewSessionRepository(db),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: func() {
			_ = client.Disconnect(context.Background())
		},
	}
}

// byID - фильтр по идентификатору документа
func byID(id uuid.UUID) bson.M {
	return bson.M{"_id": id.String()}
}

func parseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// findAll декодирует курсор в доменные объекты
func findAll[D any, T any](ctx context.Context, coll *mongo.Collection, filter bson.M, toDomain func(*D) *T) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc D
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, toDomain(&doc))
	}

	return items, cursor.Err()
}
