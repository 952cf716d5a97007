package database

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/fleetflow/internal/pkg/config"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Connect создает пул подключений к PostgreSQL.
// Пока база поднимается (docker compose), ping повторяется cfg.ConnectAttempts раз.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pingWithRetry(ctx, pool, cfg, log); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func pingWithRetry(ctx context.Context, pool *pgxpool.Pool, cfg *config.DatabaseConfig, log logger.Logger) error {
	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = pool.Ping(ctx); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		wait := time.Duration(attempt) * cfg.ConnectBackoff
		log.Warn("Database not ready, retrying", map[string]interface{}{
			"attempt": attempt,
			"wait_ms": wait.Milliseconds(),
			"error":   lastErr.Error(),
		})

		select {
		case <-ctx.Done():
			return fmt.Errorf("unable to ping database: %w", ctx.Err())
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("unable to ping database after %d attempts: %w", attempts, lastErr)
}

// ExposePoolStats публикует размер пула в реестре метрик.
// Повторная регистрация (второй пул в процессе) игнорируется.
func ExposePoolStats(pool *pgxpool.Pool) {
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: "fleet_db_pool_total_conns", Help: "Open PostgreSQL connections."},
			func() float64 { return float64(pool.Stat().TotalConns()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: "fleet_db_pool_acquired_conns", Help: "PostgreSQL connections in use."},
			func() float64 { return float64(pool.Stat().AcquiredConns()) },
		),
	}
	for _, g := range gauges {
		_ = metrics.Registry.Register(g)
	}
}

// Close закрывает пул подключений
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
