package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/usecase/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestAuthHandler_Register тестирует регистрацию пользователя
func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешная регистрация",
			requestBody: auth.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "password123",
				Role:     domain.RoleDispatcher,
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(&auth.AuthResponse{
						User: &domain.User{
							ID:    uuid.New(),
							Name:  "Test User",
							Email: "test@example.com",
							Role:  domain.RoleDispatcher,
						},
						Token:     "signed-token",
						ExpiresAt: "2026-05-13T10:00:00Z",
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, "signed-token", data["token"])
				user := data["user"].(map[string]interface{})
				assert.Equal(t, "test@example.com", user["email"])
				assert.Equal(t, "dispatcher", user["role"])
			},
		},
		{
			name: "пользователь уже существует",
			requestBody: auth.RegisterRequest{
				Name:     "Existing User",
				Email:    "existing@example.com",
				Password: "password123",
				Role:     domain.RoleManager,
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(nil, domain.ErrUserAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Contains(t, resp["error"].(string), "already exists")
			},
		},
		{
			name: "неизвестная роль",
			requestBody: map[string]interface{}{
				"name":     "Test User",
				"email":    "test@example.com",
				"password": "password123",
				"role":     "admin",
			},
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				details := resp["details"].([]interface{})
				assert.Equal(t, "role", details[0].(map[string]interface{})["field"])
			},
		},
		{
			name:           "невалидный JSON",
			requestBody:    "invalid json",
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			handler := NewAuthHandler(mockService, logger.NewNoop())

			req := newJSONRequest(t, http.MethodPost, "/api/auth/register", tt.requestBody)
			rr := httptest.NewRecorder()

			handler.Register(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			tt.checkResponse(t, decodeResponse(t, rr))
			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_Login тестирует вход пользователя
func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
	}{
		{
			name:        "успешный вход",
			requestBody: auth.LoginRequest{Email: "test@example.com", Password: "password123"},
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(&auth.AuthResponse{Token: "signed-token"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "неверные учетные данные",
			requestBody: auth.LoginRequest{Email: "test@example.com", Password: "wrong"},
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(nil, domain.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "пустой email",
			requestBody:    map[string]string{"password": "password123"},
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "сбой хранилища",
			requestBody: auth.LoginRequest{Email: "test@example.com", Password: "password123"},
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			handler := NewAuthHandler(mockService, logger.NewNoop())

			req := newJSONRequest(t, http.MethodPost, "/api/auth/login", tt.requestBody)
			rr := httptest.NewRecorder()

			handler.Login(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			resp := decodeResponse(t, rr)
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", resp["error"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_GetMe тестирует получение текущего пользователя
func TestAuthHandler_GetMe(t *testing.T) {
	claims := testClaims(domain.RoleAnalyst)

	t.Run("пользователь из токена", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("GetUserByID", mock.Anything, claims.UserID).
			Return(&domain.User{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil)

		handler := NewAuthHandler(mockService, logger.NewNoop())
		req := withClaims(newJSONRequest(t, http.MethodGet, "/api/auth/me", nil), claims)
		rr := httptest.NewRecorder()

		handler.GetMe(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		data := decodeResponse(t, rr)["data"].(map[string]interface{})
		assert.Equal(t, claims.UserID.String(), data["id"])
		mockService.AssertExpectations(t)
	})

	t.Run("без claims", func(t *testing.T) {
		handler := NewAuthHandler(new(MockAuthService), logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.GetMe(rr, newJSONRequest(t, http.MethodGet, "/api/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

// TestAuthHandler_Logout тестирует отзыв токена
func TestAuthHandler_Logout(t *testing.T) {
	claims := testClaims(domain.RoleManager)

	mockService := new(MockAuthService)
	mockService.On("Logout", mock.Anything, claims).Return(nil)

	handler := NewAuthHandler(mockService, logger.NewNoop())
	req := withClaims(newJSONRequest(t, http.MethodPost, "/api/auth/logout", nil), claims)
	rr := httptest.NewRecorder()

	handler.Logout(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	AssertSuccess(t, decodeResponse(t, rr))
	mockService.AssertExpectations(t)
}
