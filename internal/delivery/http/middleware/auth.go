package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/jwt"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/policy"
)

// contextKey - тип для ключей контекста
type contextKey string

const (
	// UserClaimsKey - ключ для сохранения claims пользователя в контексте
	UserClaimsKey contextKey = "user_claims"
)

// Authenticator проверяет bearer токен
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

// Gate применяет таблицу доступа к операциям
type Gate struct {
	table *policy.Table
	auth  Authenticator
	log   logger.Logger
}

// NewGate создает gate поверх таблицы доступа
func NewGate(table *policy.Table, auth Authenticator, log logger.Logger) *Gate {
	return &Gate{table: table, auth: auth, log: log}
}

// Table возвращает таблицу доступа
func (g *Gate) Table() *policy.Table {
	return g.table
}

// Require возвращает middleware для операции op.
// Публичные операции пропускаются без токена, остальные требуют токен и роль из таблицы.
func (g *Gate) Require(op string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.table.IsPublic(op) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := bearerToken(r)
			if !ok {
				respondError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			claims, err := g.auth.Authenticate(r.Context(), tokenString)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					respondError(w, http.StatusUnauthorized, "Token expired")
				case domain.KindOf(err) == domain.KindUnauthenticated:
					respondError(w, http.StatusUnauthorized, "Invalid token")
				default:
					g.log.Error("Failed to authenticate request", map[string]interface{}{
						"error": err.Error(),
					})
					respondError(w, http.StatusInternalServerError, "Internal server error")
				}
				return
			}

			if err := g.table.Authorize(op, claims.Role); err != nil {
				g.log.Warn("Access denied", map[string]interface{}{
					"user_id":   claims.UserID,
					"role":      claims.Role,
					"operation": op,
				})
				respondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает токен из заголовка "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserClaims извлекает claims пользователя из контекста
func GetUserClaims(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*jwt.Claims)
	return claims, ok
}

// WithUserClaims кладет claims в контекст
func WithUserClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"success":false,"error":"` + message + `"}`))
}
