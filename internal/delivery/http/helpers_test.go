package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frontandrew/fleetflow/internal/delivery/http/middleware"
	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newJSONRequest собирает запрос; body типа string уходит как есть
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParam кладет параметр пути chi в контекст запроса
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// withClaims добавляет claims пользователя, как это делает gate
func withClaims(req *http.Request, claims *jwt.Claims) *http.Request {
	return req.WithContext(middleware.WithUserClaims(req.Context(), claims))
}

// testClaims создает claims для роли
func testClaims(role domain.UserRole) *jwt.Claims {
	claims := &jwt.Claims{
		UserID: uuid.New(),
		Name:   "Test " + string(role),
		Email:  string(role) + "@fleet.test",
		Role:   role,
	}
	claims.ID = uuid.NewString()
	return claims
}

// decodeResponse разбирает JSON ответ
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

// AssertSuccess проверяет успешный ответ API
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError проверяет ошибочный ответ API
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
