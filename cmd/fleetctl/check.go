package main

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/fleetflow/internal/bootstrap"
	"github.com/frontandrew/fleetflow/internal/pkg/redis"
	"github.com/spf13/cobra"
)

const probeKey = "fleetflow:check"

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check storage and cache connectivity",
	Long: `Open the store selected by STORAGE_DRIVER and ping it.
When REDIS_ENABLED is set, also run a SET/GET/DEL round trip on a probe key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		store, err := bootstrap.OpenStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("storage ping failed: %w", err)
		}
		fmt.Fprintf(out, "storage  %-8s ok\n", cfg.Storage.Driver)

		if !cfg.Redis.Enabled {
			fmt.Fprintln(out, "cache    disabled")
			return nil
		}

		cache, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()

		if err := cacheRoundTrip(ctx, cache); err != nil {
			return err
		}
		fmt.Fprintf(out, "cache    %-8s ok\n", cfg.Redis.Address())
		return nil
	},
}

// cacheRoundTrip записывает, читает и удаляет пробный ключ
func cacheRoundTrip(ctx context.Context, cache *redis.Client) error {
	want := time.Now().UTC().Format(time.RFC3339Nano)
	if err := cache.Set(ctx, probeKey, want, time.Minute); err != nil {
		return fmt.Errorf("cache SET failed: %w", err)
	}

	got, err := cache.Get(ctx, probeKey)
	if err != nil {
		return fmt.Errorf("cache GET failed: %w", err)
	}
	if got != want {
		return fmt.Errorf("cache GET returned %q, want %q", got, want)
	}

	if err := cache.Del(ctx, probeKey); err != nil {
		return fmt.Errorf("cache DEL failed: %w", err)
	}
	return nil
}
