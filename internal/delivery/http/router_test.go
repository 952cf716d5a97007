package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/fleetflow/internal/delivery/http/middleware"
	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/config"
	"github.com/frontandrew/fleetflow/internal/pkg/jwt"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/policy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubAuthenticator выдает claims по заранее известным токенам
type stubAuthenticator map[string]*jwt.Claims

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*jwt.Claims, error) {
	switch token {
	case "revoked":
		return nil, domain.ErrTokenRevoked
	case "expired":
		return nil, domain.ErrTokenExpired
	case "broken-store":
		return nil, errors.New("redis: connection refused")
	}
	claims, ok := s[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

type routerFixture struct {
	router  *Router
	handler http.Handler
	fleet   *MockFleetService
	auth    *MockAuthService
	reports *MockReportService
}

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		},
		RateLimit: config.RateLimitConfig{Requests: 100, Window: time.Minute},
	}
}

func newRouterFixture(t *testing.T, cfg *config.Config, health HealthCheck) *routerFixture {
	t.Helper()

	table, err := policy.Default()
	require.NoError(t, err)

	authenticator := stubAuthenticator{
		"manager":    testClaims(domain.RoleManager),
		"dispatcher": testClaims(domain.RoleDispatcher),
		"safety":     testClaims(domain.RoleSafety),
		"analyst":    testClaims(domain.RoleAnalyst),
	}

	f := &routerFixture{
		fleet:   new(MockFleetService),
		auth:    new(MockAuthService),
		reports: new(MockReportService),
	}
	log := logger.NewNoop()

	f.router = NewRouter(Handlers{
		Auth:        NewAuthHandler(f.auth, log),
		Vehicle:     NewVehicleHandler(f.fleet, log),
		Driver:      NewDriverHandler(f.fleet, log),
		Trip:        NewTripHandler(f.fleet, log),
		Maintenance: NewMaintenanceHandler(f.fleet, log),
		Expense:     NewExpenseHandler(f.fleet, log),
		Report:      NewReportHandler(f.reports, f.reports, log),
	}, middleware.NewGate(table, authenticator, log), health, cfg, log)

	f.handler, err = f.router.Setup()
	require.NoError(t, err)
	return f
}

func (f *routerFixture) do(method, target, token string, body interface{}, t *testing.T) *httptest.ResponseRecorder {
	req := newJSONRequest(t, method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

// TestRouter_EveryRouteHasPolicy сверяет маршруты с таблицей доступа
func TestRouter_EveryRouteHasPolicy(t *testing.T) {
	f := newRouterFixture(t, testConfig(), nil)

	table, err := policy.Default()
	require.NoError(t, err)

	assert.Equal(t, table.Operations(), f.router.Operations())
}

// TestRouter_MissingPolicyFails проверяет отказ старта без правила для маршрута
func TestRouter_MissingPolicyFails(t *testing.T) {
	table, err := policy.Parse([]byte("operations:\n  auth.login: [public]\n"))
	require.NoError(t, err)

	log := logger.NewNoop()
	fleetService := new(MockFleetService)
	reports := new(MockReportService)

	router := NewRouter(Handlers{
		Auth:        NewAuthHandler(new(MockAuthService), log),
		Vehicle:     NewVehicleHandler(fleetService, log),
		Driver:      NewDriverHandler(fleetService, log),
		Trip:        NewTripHandler(fleetService, log),
		Maintenance: NewMaintenanceHandler(fleetService, log),
		Expense:     NewExpenseHandler(fleetService, log),
		Report:      NewReportHandler(reports, reports, log),
	}, middleware.NewGate(table, stubAuthenticator{}, log), nil, testConfig(), log)

	_, err = router.Setup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vehicles.create")
	assert.NotContains(t, err.Error(), "auth.login")
}

// TestRouter_Gate тестирует аутентификацию и роли на реальных маршрутах
func TestRouter_Gate(t *testing.T) {
	vehicleID := uuid.New()

	tests := []struct {
		name           string
		method         string
		target         string
		token          string
		body           interface{}
		mockSetup      func(*routerFixture)
		expectedStatus int
	}{
		{
			name:           "без токена",
			method:         http.MethodGet,
			target:         "/api/vehicles",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "неизвестный токен",
			method:         http.MethodGet,
			target:         "/api/vehicles",
			token:          "garbage",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "отозванный токен",
			method:         http.MethodGet,
			target:         "/api/alerts",
			token:          "revoked",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "истекший токен",
			method:         http.MethodGet,
			target:         "/api/alerts",
			token:          "expired",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "хранилище сессий недоступно",
			method:         http.MethodGet,
			target:         "/api/alerts",
			token:          "broken-store",
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "аналитик не создает машины",
			method:         http.MethodPost,
			target:         "/api/vehicles",
			token:          "analyst",
			body:           map[string]interface{}{"model": "Van", "plate": "VAN-1", "capacity": 800},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "диспетчер не удаляет машины",
			method:         http.MethodDelete,
			target:         "/api/vehicles/" + vehicleID.String(),
			token:          "dispatcher",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "диспетчер не меняет водителей",
			method:         http.MethodPost,
			target:         "/api/drivers",
			token:          "dispatcher",
			body:           map[string]interface{}{"name": "Alex"},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "безопасность не видит финансы",
			method:         http.MethodGet,
			target:         "/api/analytics/roi",
			token:          "safety",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "ремонт требует токен",
			method:         http.MethodGet,
			target:         "/api/maintenance",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "руководитель удаляет машину",
			method: http.MethodDelete,
			target: "/api/vehicles/" + vehicleID.String(),
			token:  "manager",
			mockSetup: func(f *routerFixture) {
				f.fleet.On("DeleteVehicle", mock.Anything, vehicleID).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "любая роль видит уведомления",
			method: http.MethodGet,
			target: "/api/alerts",
			token:  "safety",
			mockSetup: func(f *routerFixture) {
				f.reports.On("ListAlerts", mock.Anything).Return([]domain.Alert{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "регистрация без токена доходит до handler'а",
			method:         http.MethodPost,
			target:         "/api/auth/register",
			body:           map[string]interface{}{"email": "not-an-email"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t, testConfig(), nil)
			if tt.mockSetup != nil {
				tt.mockSetup(f)
			}

			rr := f.do(tt.method, tt.target, tt.token, tt.body, t)

			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
			f.fleet.AssertExpectations(t)
			f.reports.AssertExpectations(t)
		})
	}
}

// TestRouter_Health тестирует проверку хранилища
func TestRouter_Health(t *testing.T) {
	t.Run("хранилище доступно", func(t *testing.T) {
		f := newRouterFixture(t, testConfig(), func(context.Context) error { return nil })

		rr := f.do(http.MethodGet, "/health", "", nil, t)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "memory", decodeResponse(t, rr)["storage"])
	})

	t.Run("хранилище недоступно", func(t *testing.T) {
		f := newRouterFixture(t, testConfig(), func(context.Context) error { return errors.New("dial tcp: refused") })

		rr := f.do(http.MethodGet, "/health", "", nil, t)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

// TestRouter_LoginRateLimit тестирует ограничение частоты входа
func TestRouter_LoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Requests: 2, Window: time.Hour}

	f := newRouterFixture(t, cfg, nil)
	f.auth.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
		Return(nil, domain.ErrInvalidCredentials)

	body := map[string]string{"email": "user@fleet.test", "password": "password123"}

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/auth/login", "", body, t).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/auth/login", "", body, t).Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodPost, "/api/auth/login", "", body, t).Code)

	// Защищенные маршруты лимитом не затронуты
	f.reports.On("ListAlerts", mock.Anything).Return([]domain.Alert{}, nil)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/alerts", "analyst", nil, t).Code)
}
