package cached

import (
	"context"
	"time"
)

const revokedTokenPrefix = "revoked:"

// SessionRepository хранит отозванные токены в Redis.
// Ключ живет до истечения токена, поэтому чистка не нужна.
type SessionRepository struct {
	cache Cache
	now   func() time.Time
}

// NewSessionRepository создает хранилище отозванных токенов
func NewSessionRepository(cache Cache) *SessionRepository {
	return &SessionRepository{cache: cache, now: time.Now}
}

func (r *SessionRepository) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		// Токен уже истек и будет отклонен по сроку
		return nil
	}
	return r.cache.Set(ctx, revokedTokenPrefix+jti, "1", ttl)
}

func (r *SessionRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	count, err := r.cache.Exists(ctx, revokedTokenPrefix+jti)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
