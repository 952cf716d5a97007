package bootstrap

import (
	"context"
	"fmt"

	"github.com/frontandrew/fleetflow/internal/pkg/config"
	"github.com/frontandrew/fleetflow/internal/pkg/database"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/mongodb"
	"github.com/frontandrew/fleetflow/internal/pkg/redis"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/frontandrew/fleetflow/internal/repository/cached"
	"github.com/frontandrew/fleetflow/internal/repository/memory"
	mongorepo "github.com/frontandrew/fleetflow/internal/repository/mongo"
	"github.com/frontandrew/fleetflow/internal/repository/postgres"
)

// OpenStore подключает хранилище, выбранное в конфигурации.
// Для postgres применяется схема, для mongo создаются индексы.
// При включенном Redis машины кэшируются, а отозванные токены живут в Redis.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*repository.Store, error) {
	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if !cfg.Redis.Enabled {
		return store, nil
	}

	cache, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		store.Close()
		return nil, err
	}

	log.Info("Connected to Redis", map[string]interface{}{
		"address":   cfg.Redis.Address(),
		"cache_ttl": cfg.Redis.CacheTTL.String(),
	})

	backendPing := store.Ping
	backendClose := store.Close

	store.Vehicles = cached.NewVehicleRepository(store.Vehicles, cache, cfg.Redis.CacheTTL, log)
	store.Sessions = cached.NewSessionRepository(cache)
	store.Ping = func(ctx context.Context) error {
		if err := backendPing(ctx); err != nil {
			return err
		}
		return cache.Ping(ctx)
	}
	store.Close = func() {
		_ = cache.Close()
		backendClose()
	}

	return store, nil
}

func openBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (*repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewStore(memory.NewDB()), nil

	case config.StoragePostgres:
		db, err := database.Connect(ctx, &cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			database.Close(db)
			return nil, err
		}
		database.ExposePoolStats(db)

		log.Info("Connected to PostgreSQL", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Database,
		})
		return postgres.NewStore(db), nil

	case config.StorageMongo:
		client, err := mongodb.Connect(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := mongorepo.EnsureIndexes(ctx, client.Database(cfg.Mongo.Database)); err != nil {
			_ = mongodb.Close(client)
			return nil, err
		}

		log.Info("Connected to MongoDB", map[string]interface{}{
			"host":     cfg.Mongo.Host,
			"database": cfg.Mongo.Database,
		})
		return mongorepo.NewStore(client, cfg.Mongo.Database), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
