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

type driverRepository struct {
	coll *mongo.Collection
}

func NewDriverRepository(db *mongo.Database) repository.DriverRepository {
	return &driverRepository{coll: db.Collection(driversCollection)}
}

func (r *driverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	driver.ID = uuid.New()
	driver.License = domain.NormalizeLicense(driver.License)
	driver.CreatedAt = time.Now().UTC()
	driver.UpdatedAt = driver.CreatedAt

	if _, err := r.coll.InsertOne(ctx, fromDriver(driver)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDriverAlreadyExists
		}
		return err
	}
	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	return r.findOne(ctx, byID(id))
}

func (r *driverRepository) GetByLicense(ctx context.Context, license string) (*domain.Driver, error) {
	return r.findOne(ctx, bson.M{"license": domain.NormalizeLicense(license)})
}

func (r *driverRepository) findOne(ctx context.Context, filter bson.M) (*domain.Driver, error) {
	var doc driverDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *driverRepository) List(ctx context.Context) ([]*domain.Driver, error) {
	return findAll(ctx, r.coll, bson.M{}, (*driverDocument).toDomain)
}

func (r *driverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	driver.License = domain.NormalizeLicense(driver.License)
	driver.UpdatedAt = time.Now().UTC()

	doc := fromDriver(driver)
	result, err := r.coll.UpdateOne(ctx, byID(driver.ID), bson.M{"$set": bson.M{
		"name":            doc.Name,
		"license":         doc.License,
		"license_expiry":  doc.LicenseExpiry,
		"type":            doc.Type,
		"completion_rate": doc.CompletionRate,
		"safety_score":    doc.SafetyScore,
		"complaints":      doc.Complaints,
		"status":          doc.Status,
		"updated_at":      doc.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDriverAlreadyExists
		}
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrDriverNotFound
	}
	return nil
}

func (r *driverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return domain.ErrDriverNotFound
	}
	return nil
}
