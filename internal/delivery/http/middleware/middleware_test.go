package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	handler := rl.Middleware()(okHandler())

	request := func(remote, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = remote
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusNoContent, request("10.0.0.1:5000", ""))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1:6000", ""))
	assert.Equal(t, http.StatusNoContent, request("10.0.0.2:5000", ""))
	assert.Equal(t, http.StatusNoContent, request("10.0.0.1:5000", "203.0.113.7, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.9:5000", "203.0.113.7"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }

	rl.get("old")
	now = now.Add(2 * time.Hour)
	rl.get("fresh")

	assert.Equal(t, 1, rl.Cleanup(time.Hour))
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "fresh")
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	RecoveryMiddleware(logger.NewNoop())(panicking).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, rr.Body.String())
}

func TestLoggingMiddleware_PassesStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	LoggingMiddleware(logger.NewNoop())(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
}
