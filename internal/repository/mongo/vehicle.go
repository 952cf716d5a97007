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

type vehicleRepository struct {
	coll *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) repository.VehicleRepository {
	return &vehicleRepository{coll: db.Collection(vehiclesCollection)}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	vehicle.ID = uuid.New()
	vehicle.Plate = domain.NormalizePlate(vehicle.Plate)
	vehicle.CreatedAt = time.Now().UTC()
	vehicle.UpdatedAt = vehicle.CreatedAt

	if _, err := r.coll.InsertOne(ctx, fromVehicle(vehicle)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrVehicleAlreadyExists
		}
		return err
	}
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return r.findOne(ctx, byID(id))
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return r.findOne(ctx, bson.M{"plate": domain.NormalizePlate(plate)})
}

func (r *vehicleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Vehicle, error) {
	var doc vehicleDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *vehicleRepository) List(ctx context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	return findAll(ctx, r.coll, query, (*vehicleDocument).toDomain)
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	vehicle.Plate = domain.NormalizePlate(vehicle.Plate)
	vehicle.UpdatedAt = time.Now().UTC()

	doc := fromVehicle(vehicle)
	result, err := r.coll.UpdateOne(ctx, byID(vehicle.ID), bson.M{"$set": bson.M{
		"model":                 doc.Model,
		"plate":                 doc.Plate,
		"type":                  doc.Type,
		"capacity":              doc.Capacity,
		"odometer":              doc.Odometer,
		"acquisition_cost":      doc.AcquisitionCost,
		"status":                doc.Status,
		"last_service_odometer": doc.LastServiceOdometer,
		"updated_at":            doc.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrVehicleAlreadyExists
		}
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}
