package main

import (
	"fmt"

	"github.com/frontandrew/fleetflow/internal/pkg/database"
	"github.com/frontandrew/fleetflow/internal/repository/postgres"
	"github.com/spf13/cobra"
)

var (
	migratePrint bool

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		Long: `Apply the embedded PostgreSQL schema to the database configured by DB_* variables.
The schema is idempotent, so running it twice is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if migratePrint {
				_, err := fmt.Fprint(cmd.OutOrStdout(), postgres.Schema())
				return err
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Connect(cmd.Context(), &cfg.Database, log)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}

			log.Info("Schema applied", map[string]interface{}{
				"host":     cfg.Database.Host,
				"database": cfg.Database.Database,
			})
			return nil
		},
	}
)

func init() {
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "Print the schema instead of applying it")
}
