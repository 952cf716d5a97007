package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frontandrew/fleetflow/internal/bootstrap"
	deliveryHTTP "github.com/frontandrew/fleetflow/internal/delivery/http"
	"github.com/frontandrew/fleetflow/internal/delivery/http/middleware"
	"github.com/frontandrew/fleetflow/internal/pkg/config"
	"github.com/frontandrew/fleetflow/internal/pkg/hash"
	"github.com/frontandrew/fleetflow/internal/pkg/jwt"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/metrics"
	"github.com/frontandrew/fleetflow/internal/pkg/policy"
	"github.com/frontandrew/fleetflow/internal/usecase/alerts"
	"github.com/frontandrew/fleetflow/internal/usecase/analytics"
	"github.com/frontandrew/fleetflow/internal/usecase/auth"
	"github.com/frontandrew/fleetflow/internal/usecase/fleet"
)

const version = "1.0.0"

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting FleetFlow API server", map[string]interface{}{
		"version": version,
		"storage": cfg.Storage.Driver,
	})

	metrics.Register()

	// =========================================================================
	// Подключение хранилища
	// =========================================================================

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage", map[string]interface{}{
			"error":  err.Error(),
			"driver": cfg.Storage.Driver,
		})
	}
	defer store.Close()

	// =========================================================================
	// Таблица доступа
	// =========================================================================

	table, err := policy.Load(cfg.Policy.File)
	if err != nil {
		log.Fatal("Failed to load access policy", map[string]interface{}{
			"error": err.Error(),
			"file":  cfg.Policy.File,
		})
	}

	// =========================================================================
	// Создание use case services
	// =========================================================================

	tokenService := jwt.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.Expiry, cfg.JWT.Issuer)
	hasher := hash.NewHasher(hash.DefaultCost)

	authService := auth.NewService(store.Users, store.Sessions, tokenService, hasher, log)
	fleetService := fleet.NewService(store, log)
	alertService := alerts.NewService(
		store.Drivers,
		store.Vehicles,
		store.Trips,
		alerts.Thresholds{
			LicenseWarningDays: cfg.Alerts.LicenseWarningDays,
			ServiceIntervalKm:  cfg.Alerts.ServiceIntervalKm,
			ServiceWarningKm:   cfg.Alerts.ServiceWarningKm,
			DraftStaleAfter:    cfg.Alerts.DraftStaleAfter,
		},
		log,
	)
	analyticsService := analytics.NewService(store, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание и настройка HTTP router
	// =========================================================================

	handlers := deliveryHTTP.Handlers{
		Auth:        deliveryHTTP.NewAuthHandler(authService, log),
		Vehicle:     deliveryHTTP.NewVehicleHandler(fleetService, log),
		Driver:      deliveryHTTP.NewDriverHandler(fleetService, log),
		Trip:        deliveryHTTP.NewTripHandler(fleetService, log),
		Maintenance: deliveryHTTP.NewMaintenanceHandler(fleetService, log),
		Expense:     deliveryHTTP.NewExpenseHandler(fleetService, log),
		Report:      deliveryHTTP.NewReportHandler(alertService, analyticsService, log),
	}

	gate := middleware.NewGate(table, authService, log)
	router := deliveryHTTP.NewRouter(handlers, gate, store.Ping, cfg, log)

	handler, err := router.Setup()
	if err != nil {
		log.Fatal("Failed to configure HTTP router", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("HTTP router configured", map[string]interface{}{
		"operations": len(router.Operations()),
	})

	// =========================================================================
	// Очистка лимитера
	// =========================================================================

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()

	go func() {
		ticker := time.NewTicker(cfg.RateLimit.Window)
		defer ticker.Stop()

		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if removed := router.Limiter().Cleanup(2 * cfg.RateLimit.Window); removed > 0 {
					log.Debug("Rate limiter cleanup", map[string]interface{}{
						"removed": removed,
					})
				}
			}
		}
	}()

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     logger.StdLogger(log),
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
