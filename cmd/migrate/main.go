package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/edaplatform/eda-api/infrastructure/adapter/postgres"
	"github.com/edaplatform/eda-api/migrations"
)

func main() {
	_ = godotenv.Load()

	driver := flag.StringP("driver", "d", envOr("DATABASE_DRIVER", postgres.DriverPostgres), "database driver: postgres or sqlite")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "database connection string (defaults to DATABASE_URL)")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("DATABASE_URL environment variable or --dsn is required")
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, *driver, *dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	fsys, err := migrations.ForDriver(*driver)
	if err != nil {
		log.Fatalf("failed to load migrations: %v", err)
	}

	applied, err := postgres.Migrate(ctx, db, fsys)
	if err != nil {
		log.Fatalf("migration up failed: %v", err)
	}
	for _, name := range applied {
		log.Printf("applied %s", name)
	}
	log.Printf("Migration up completed successfully (%d applied)", len(applied))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
