package jwt

import (
	"testing"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    uuid.New(),
		Name:  "Dana Dispatcher",
		Email: "dana@fleet.test",
		Role:  domain.RoleDispatcher,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := NewTokenService("secret", 24*time.Hour, "fleetflow")
	user := testUser()

	token, err := ts.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token.ID)

	claims, err := ts.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, domain.RoleDispatcher, claims.Role)
	assert.Equal(t, token.ID, claims.ID)
}

func TestTokenService_Expired(t *testing.T) {
	ts := NewTokenService("secret", time.Hour, "fleetflow")
	issued := time.Now().Add(-2 * time.Hour)
	ts.now = func() time.Time { return issued }

	token, err := ts.GenerateToken(testUser())
	require.NoError(t, err)

	ts.now = time.Now
	_, err = ts.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := NewTokenService("secret", time.Hour, "fleetflow").GenerateToken(testUser())
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Hour, "fleetflow").ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestTokenService_Garbage(t *testing.T) {
	_, err := NewTokenService("secret", time.Hour, "fleetflow").ValidateToken("not-a-token")
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}
