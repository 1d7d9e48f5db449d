package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const EnvDatabaseDSN = "DATABASE_DSN"

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Populate the database from a JSON catalog",
		SilenceUsage: true,
	}

	root.AddCommand(newApplyCommand(), newListCommand())
	return root
}

func newApplyCommand() *cobra.Command {
	var dsn, file string

	cmd := &cobra.Command{
		Use:   "apply [seeder...]",
		Short: "Run the named seeders, or all of them, in one transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := selectSeeders(args)
			if err != nil {
				return err
			}

			catalog, err := loadCatalog(file)
			if err != nil {
				return err
			}

			if dsn == "" {
				dsn = os.Getenv(EnvDatabaseDSN)
			}
			if dsn == "" {
				return fmt.Errorf("database connection string required: use --dsn or %s", EnvDatabaseDSN)
			}

			db, err := sql.Open("pgx", dsn)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			ctx := context.Background()
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}

			if err := runSeeders(ctx, db, catalog, selected); err != nil {
				return err
			}

			for _, s := range selected {
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", s.Name())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "database connection string (default $"+EnvDatabaseDSN+")")
	cmd.Flags().StringVarP(&file, "file", "f", "", "external catalog file (overrides the embedded one)")
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available seeders in run order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, s := range seeders {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %s\n", s.Name(), s.Description())
			}
		},
	}
}
