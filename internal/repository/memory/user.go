package memory

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/google/uuid"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	for _, u := range r.db.users {
		if u.Email == email {
			return domain.ErrUserAlreadyExists
		}
	}

	user.ID = uuid.New()
	user.Email = email
	user.CreatedAt = r.db.now()
	user.UpdatedAt = user.CreatedAt
	r.db.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := r.db.now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	r.db.users[id] = u
	return nil
}

type sessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Revoke(ctx context.Context, jti string, until time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	// Заодно чистим записи с истекшим сроком
	now := r.db.now()
	for k, exp := range r.db.revoked {
		if exp.Before(now) {
			delete(r.db.revoked, k)
		}
	}
	r.db.revoked[jti] = until
	return nil
}

func (r *sessionRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	until, ok := r.db.revoked[jti]
	if !ok {
		return false, nil
	}
	return until.After(r.db.now()), nil
}
