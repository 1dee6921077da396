// chivactl hosts the operator commands that used to live as one-off scripts:
// size-table seeding, admin-flag reconciliation, data diagnostics and the
// abandoned-cart sweep.
package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"chiva/internal/repos"
)

var dbDSN string

func openDB() (*sqlx.DB, error) {
	return repos.OpenDB(dbDSN)
}

func main() {
	root := &cobra.Command{
		Use:           "chivactl",
		Short:         "Operator tooling for the chiva store backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultDSN := os.Getenv("DB_DSN")
	if defaultDSN == "" {
		defaultDSN = "chiva.db"
	}
	root.PersistentFlags().StringVar(&dbDSN, "db", defaultDSN, "sqlite DSN")

	root.AddCommand(
		seedSizesCmd(),
		fixAdminsCmd(),
		checkOrderSizesCmd(),
		checkCartSizesCmd(),
		checkPaymentsCmd(),
		abandonCartsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
