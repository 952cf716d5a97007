package auth

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/hash"
	"github.com/frontandrew/fleetflow/internal/pkg/jwt"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *Service {
	store := memory.NewStore(memory.NewDB())
	return NewService(
		store.Users,
		store.Sessions,
		jwt.NewTokenService("test-secret", time.Hour, "fleetflow"),
		hash.NewHasher(bcrypt.MinCost),
		logger.NewNoop(),
	)
}

func register(t *testing.T, svc *Service, email string) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Mira Manager",
		Email:    email,
		Password: "password123",
		Role:     domain.RoleManager,
	})
	require.NoError(t, err)
	return resp
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	registered := register(t, svc, "Mira@Fleet.test")
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "mira@fleet.test", registered.User.Email)
	assert.Empty(t, registered.User.PasswordHash)

	_, err := svc.Register(ctx, &RegisterRequest{
		Name: "Copy", Email: "mira@fleet.test", Password: "password123", Role: domain.RoleAnalyst,
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, err = svc.Login(ctx, &LoginRequest{Email: "mira@fleet.test", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@fleet.test", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	loggedIn, err := svc.Login(ctx, &LoginRequest{Email: "mira@fleet.test", Password: "password123"})
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleManager, claims.Role)
	assert.Equal(t, "Mira Manager", claims.Name)
}

func TestService_LogoutRevokesToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp := register(t, svc, "logout@fleet.test")

	claims, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestService_AuthenticateRejectsGarbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestService_AuthenticateRequiresLiveUser(t *testing.T) {
	svc := newTestService()

	// Токен подписан верно, но пользователя нет в хранилище
	token, err := svc.tokenService.GenerateToken(&domain.User{
		ID:    uuid.New(),
		Name:  "Ghost",
		Email: "ghost@fleet.test",
		Role:  domain.RoleAnalyst,
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
