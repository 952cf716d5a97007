package mongo

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New()
	user.Email = domain.NormalizeEmail(user.Email)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	if _, err := r.coll.InsertOne(ctx, fromUser(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, byID(id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	result, err := r.coll.UpdateOne(ctx, byID(id), bson.M{
		"$set": bson.M{"last_login_at": now, "updated_at": now},
	})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// sessionRepository хранит отозванные токены; TTL индекс удаляет истекшие
type sessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &sessionRepository{coll: db.Collection(revokedCollection)}
}

func (r *sessionRepository) Revoke(ctx context.Context, jti string, until time.Time) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": jti},
		revokedDocument{JTI: jti, ExpiresAt: until.UTC()},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *sessionRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	// TTL монитор работает раз в минуту, поэтому срок проверяем явно
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"_id":        jti,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
