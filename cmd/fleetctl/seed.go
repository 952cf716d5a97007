package main

import (
	"fmt"

	"github.com/frontandrew/fleetflow/internal/bootstrap"
	"github.com/frontandrew/fleetflow/internal/pkg/hash"
	"github.com/frontandrew/fleetflow/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset into an empty store",
	Long: `Create one demo account per role, a small fleet, drivers and four months of
trip history in the store selected by STORAGE_DRIVER. Refuses to run when the
store already contains vehicles.

Demo accounts share the password "` + seed.DemoPassword + `".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := bootstrap.OpenStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		sum, err := seed.New(store, hash.NewHasher(hash.DefaultCost)).Run(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Seeded %s storage:\n", cfg.Storage.Driver)
		fmt.Fprintf(out, "  users        %d\n", sum.Users)
		fmt.Fprintf(out, "  vehicles     %d\n", sum.Vehicles)
		fmt.Fprintf(out, "  drivers      %d\n", sum.Drivers)
		fmt.Fprintf(out, "  trips        %d\n", sum.Trips)
		fmt.Fprintf(out, "  maintenance  %d\n", sum.Maintenance)
		fmt.Fprintf(out, "  expenses     %d\n", sum.Expenses)
		fmt.Fprintln(out)
		for _, a := range seed.Accounts {
			fmt.Fprintf(out, "  %-11s %s\n", a.Role, a.Email)
		}
		return nil
	},
}
