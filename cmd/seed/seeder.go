// Package main provides the seed command for populating the database with
// providers, models, tools and agents from a JSON catalog. Seeders run in
// registration order inside a single transaction.
package main

import (
	"context"
	"database/sql"
	"fmt"
)

// Seeder populates one table from the catalog.
type Seeder interface {
	Name() string
	Description() string

	// Seed upserts the seeder's rows. Running it twice leaves the same data.
	Seed(ctx context.Context, tx *sql.Tx, catalog *Catalog) error
}

// seeders is ordered: later seeders look up rows written by earlier ones.
var seeders []Seeder

func registerSeeder(s Seeder) {
	seeders = append(seeders, s)
}

func getSeeder(name string) (Seeder, bool) {
	for _, s := range seeders {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// selectSeeders returns the named seeders in registration order, or all of
// them when names is empty.
func selectSeeders(names []string) ([]Seeder, error) {
	if len(names) == 0 {
		return seeders, nil
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := getSeeder(name); !ok {
			return nil, fmt.Errorf("seeder not found: %s", name)
		}
		want[name] = true
	}

	var selected []Seeder
	for _, s := range seeders {
		if want[s.Name()] {
			selected = append(selected, s)
		}
	}
	return selected, nil
}

// runSeeders executes selected within one transaction. Any failure rolls
// back the whole run.
func runSeeders(ctx context.Context, db *sql.DB, catalog *Catalog, selected []Seeder) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, s := range selected {
		if err := s.Seed(ctx, tx, catalog); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
