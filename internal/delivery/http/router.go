package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/frontandrew/fleetflow/internal/delivery/http/middleware"
	"github.com/frontandrew/fleetflow/internal/pkg/config"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers - набор handler'ов API
type Handlers struct {
	Auth        *AuthHandler
	Vehicle     *VehicleHandler
	Driver      *DriverHandler
	Trip        *TripHandler
	Maintenance *MaintenanceHandler
	Expense     *ExpenseHandler
	Report      *ReportHandler
}

// HealthCheck проверяет доступность хранилища
type HealthCheck func(ctx context.Context) error

// Router содержит все зависимости для HTTP роутера
type Router struct {
	handlers Handlers
	gate     *middleware.Gate
	limiter  *middleware.RateLimiter
	health   HealthCheck
	config   *config.Config
	logger   logger.Logger

	routed  map[string]bool
	missing []string
}

// NewRouter создает новый HTTP router
func NewRouter(
	handlers Handlers,
	gate *middleware.Gate,
	health HealthCheck,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		handlers: handlers,
		gate:     gate,
		limiter:  middleware.NewRateLimiter(config.RateLimit.Requests, config.RateLimit.Window),
		health:   health,
		config:   config,
		logger:   logger,
		routed:   make(map[string]bool),
	}
}

// Limiter возвращает лимитер auth endpoints
func (rt *Router) Limiter() *middleware.RateLimiter {
	return rt.limiter
}

// route регистрирует маршрут под именем операции из таблицы доступа
func (rt *Router) route(r chi.Router, method, pattern, op string, h http.HandlerFunc) {
	if _, ok := rt.gate.Table().Rule(op); !ok {
		rt.missing = append(rt.missing, op)
	}
	rt.routed[op] = true
	r.With(rt.gate.Require(op)).Method(method, pattern, h)
}

// Setup настраивает все маршруты.
// Возвращает ошибку, если операция маршрута отсутствует в таблице доступа.
func (rt *Router) Setup() (http.Handler, error) {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.config.CORS.AllowedOrigins,
		AllowedMethods:   rt.config.CORS.AllowedMethods,
		AllowedHeaders:   rt.config.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	h := rt.handlers

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(rt.limiter.Middleware())
				rt.route(r, http.MethodPost, "/register", "auth.register", h.Auth.Register)
				rt.route(r, http.MethodPost, "/login", "auth.login", h.Auth.Login)
			})
			rt.route(r, http.MethodGet, "/me", "auth.me", h.Auth.GetMe)
			rt.route(r, http.MethodPost, "/logout", "auth.logout", h.Auth.Logout)
		})

		r.Route("/vehicles", func(r chi.Router) {
			rt.route(r, http.MethodGet, "/", "vehicles.list", h.Vehicle.ListVehicles)
			rt.route(r, http.MethodPost, "/", "vehicles.create", h.Vehicle.CreateVehicle)
			rt.route(r, http.MethodGet, "/available", "vehicles.available", h.Vehicle.ListAvailable)
			rt.route(r, http.MethodGet, "/suggest", "vehicles.suggest", h.Vehicle.Suggest)
			rt.route(r, http.MethodGet, "/{id}", "vehicles.get", h.Vehicle.GetVehicle)
			rt.route(r, http.MethodPut, "/{id}", "vehicles.update", h.Vehicle.UpdateVehicle)
			rt.route(r, http.MethodPatch, "/{id}/status", "vehicles.set_status", h.Vehicle.SetStatus)
			rt.route(r, http.MethodDelete, "/{id}", "vehicles.delete", h.Vehicle.DeleteVehicle)
		})

		r.Route("/drivers", func(r chi.Router) {
			rt.route(r, http.MethodGet, "/", "drivers.list", h.Driver.ListDrivers)
			rt.route(r, http.MethodPost, "/", "drivers.create", h.Driver.CreateDriver)
			rt.route(r, http.MethodGet, "/{id}", "drivers.get", h.Driver.GetDriver)
			rt.route(r, http.MethodPut, "/{id}", "drivers.update", h.Driver.UpdateDriver)
			rt.route(r, http.MethodPatch, "/{id}/status", "drivers.set_status", h.Driver.SetStatus)
			rt.route(r, http.MethodDelete, "/{id}", "drivers.delete", h.Driver.DeleteDriver)
		})

		r.Route("/trips", func(r chi.Router) {
			rt.route(r, http.MethodGet, "/", "trips.list", h.Trip.ListTrips)
			rt.route(r, http.MethodPost, "/", "trips.create", h.Trip.CreateTrip)
			rt.route(r, http.MethodGet, "/{id}", "trips.get", h.Trip.GetTrip)
			rt.route(r, http.MethodPut, "/{id}", "trips.update", h.Trip.UpdateTrip)
			rt.route(r, http.MethodPost, "/{id}/dispatch", "trips.dispatch", h.Trip.DispatchTrip)
			rt.route(r, http.MethodPost, "/{id}/start", "trips.start", h.Trip.StartTrip)
			rt.route(r, http.MethodPost, "/{id}/complete", "trips.complete", h.Trip.CompleteTrip)
			rt.route(r, http.MethodPost, "/{id}/cancel", "trips.cancel", h.Trip.CancelTrip)
		})

		r.Route("/maintenance", func(r chi.Router) {
			rt.route(r, http.MethodGet, "/", "maintenance.list", h.Maintenance.ListMaintenance)
			rt.route(r, http.MethodPost, "/", "maintenance.create", h.Maintenance.LogMaintenance)
			rt.route(r, http.MethodGet, "/{id}", "maintenance.get", h.Maintenance.GetMaintenance)
			rt.route(r, http.MethodPatch, "/{id}/status", "maintenance.update_status", h.Maintenance.UpdateStatus)
			rt.route(r, http.MethodPost, "/{id}/resolve", "maintenance.resolve", h.Maintenance.Resolve)
		})

		r.Route("/expenses", func(r chi.Router) {
			rt.route(r, http.MethodGet, "/", "expenses.list", h.Expense.ListExpenses)
			rt.route(r, http.MethodPost, "/", "expenses.create", h.Expense.CreateExpense)
			rt.route(r, http.MethodGet, "/{id}", "expenses.get", h.Expense.GetExpense)
		})

		rt.route(r, http.MethodGet, "/alerts", "alerts.list", h.Report.ListAlerts)

		r.Route("/analytics", func(r chi.Router) {
			rt.route(r, http.MethodGet, "/kpis", "analytics.kpis", h.Report.KPIs)
			rt.route(r, http.MethodGet, "/monthly", "analytics.monthly", h.Report.Monthly)
			rt.route(r, http.MethodGet, "/roi", "analytics.roi", h.Report.ROI)
			rt.route(r, http.MethodGet, "/fuel-efficiency", "analytics.fuel_efficiency", h.Report.FuelEfficiency)
			rt.route(r, http.MethodGet, "/costliest", "analytics.costliest", h.Report.Costliest)
		})
	})

	if len(rt.missing) > 0 {
		sort.Strings(rt.missing)
		return nil, fmt.Errorf("operations missing from access policy: %s", strings.Join(rt.missing, ", "))
	}

	for _, op := range rt.gate.Table().Operations() {
		if !rt.routed[op] {
			rt.logger.Warn("Policy operation has no route", map[string]interface{}{
				"operation": op,
			})
		}
	}

	return r, nil
}

// Operations возвращает имена операций, зарегистрированных в Setup
func (rt *Router) Operations() []string {
	ops := make([]string, 0, len(rt.routed))
	for op := range rt.routed {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// healthCheck GET /health
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := rt.health(ctx); err != nil {
			rt.logger.Error("Health check failed", map[string]interface{}{
				"error": err.Error(),
			})
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"storage": "unavailable",
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"storage": rt.config.Storage.Driver,
	})
}
