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

type maintenanceRepository struct {
	coll *mongo.Collection
}

func NewMaintenanceRepository(db *mongo.Database) repository.MaintenanceRepository {
	return &maintenanceRepository{coll: db.Collection(maintenanceCollection)}
}

func (r *maintenanceRepository) Create(ctx context.Context, log *domain.MaintenanceLog) error {
	log.ID = uuid.New()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	log.UpdatedAt = time.Now().UTC()

	_, err := r.coll.InsertOne(ctx, fromMaintenance(log))
	return err
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error) {
	var doc maintenanceDocument
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrMaintenanceNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *maintenanceRepository) List(ctx context.Context, filter repository.MaintenanceFilter) ([]*domain.MaintenanceLog, error) {
	query := bson.M{}
	if filter.VehicleID != nil {
		query["vehicle_id"] = filter.VehicleID.String()
	}
	if filter.OpenOnly {
		query["status"] = bson.M{"$ne": string(domain.MaintenanceDone)}
	}
	return findAll(ctx, r.coll, query, (*maintenanceDocument).toDomain)
}

func (r *maintenanceRepository) Update(ctx context.Context, log *domain.MaintenanceLog) error {
	log.UpdatedAt = time.Now().UTC()

	result, err := r.coll.ReplaceOne(ctx, byID(log.ID), fromMaintenance(log))
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrMaintenanceNotFound
	}
	return nil
}
