package postgres

import (
	"context"
	"time"

	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// sessionRepository хранит отозванные токены в таблице revoked_tokens
type sessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Revoke(ctx context.Context, jti string, until time.Time) error {
	// Заодно чистим записи с истекшим сроком
	if _, err := r.db.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, time.Now()); err != nil {
		return err
	}

	query := `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO UPDATE SET expires_at = EXCLUDED.expires_at
	`
	_, err := r.db.Exec(ctx, query, jti, until)
	return err
}

func (r *sessionRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1 AND expires_at > $2)`,
		jti, time.Now(),
	).Scan(&revoked)
	return revoked, err
}
