package mongo

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type tripRepository struct {
	coll *mongo.Collection
}

func NewTripRepository(db *mongo.Database) repository.TripRepository {
	return &tripRepository{coll: db.Collection(tripsCollection)}
}

func (r *tripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	trip.ID = uuid.New()
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}
	trip.UpdatedAt = time.Now().UTC()

	_, err := r.coll.InsertOne(ctx, fromTrip(trip))
	return err
}

func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	var doc tripDocument
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrTripNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *tripRepository) List(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	query := bson.M{}
	if filter.VehicleID != nil {
		query["vehicle_id"] = filter.VehicleID.String()
	}
	if filter.DriverID != nil {
		query["driver_id"] = filter.DriverID.String()
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query["status"] = bson.M{"$in": statuses}
	}
	return findAll(ctx, r.coll, query, (*tripDocument).toDomain)
}

func (r *tripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	trip.UpdatedAt = time.Now().UTC()

	result, err := r.coll.ReplaceOne(ctx, byID(trip.ID), fromTrip(trip))
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrTripNotFound
	}
	return nil
}
