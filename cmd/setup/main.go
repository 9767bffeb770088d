// Command setup creates the database if it is missing, applies migrations and
// optionally stocks payout inventory from a seed file.
//
//	setup [-seed inventory.json]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RedeemBot_Go/internal/bootstrap"
	"github.com/osse101/RedeemBot_Go/internal/config"
	"github.com/osse101/RedeemBot_Go/internal/crypto"
	"github.com/osse101/RedeemBot_Go/internal/database"
)

func main() {
	seedPath := flag.String("seed", "", "inventory seed file (overrides INVENTORY_SEED_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.StorageBackend != config.StoragePostgres {
		log.Fatalf("setup only applies to STORAGE_BACKEND=%s", config.StoragePostgres)
	}
	if *seedPath == "" {
		*seedPath = cfg.SeedPath
	}

	ctx := context.Background()

	// 1. Create the database through the default 'postgres' database
	if err := ensureDatabase(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}

	// 2. Apply migrations
	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Unable to connect to %s database: %v", cfg.DBName, err)
	}
	defer pool.Close()

	fmt.Println("Running migrations...")
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	fmt.Println("Migrations completed successfully.")

	if *seedPath == "" {
		return
	}

	// 3. Seed inventory, sealing secrets with the active key
	keyring, err := crypto.ParseKeyring(cfg.CodeKeys, cfg.ActiveCodeKeyID)
	if err != nil {
		log.Fatalf("%s: %v", bootstrap.ErrMsgFailedLoadKeyring, err)
	}
	seed, err := bootstrap.LoadInventorySeed(*seedPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	repos := bootstrap.NewPostgresRepositories(pool)
	res, err := bootstrap.SeedInventory(ctx, seed, repos.Inventory, keyring, nil)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("Seeded %d cards and %d game codes with key %q.\n", res.Cards, res.GameCodes, keyring.ActiveKeyID())
}

func ensureDatabase(ctx context.Context, cfg *config.Config) error {
	defaultConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
	conn, err := pgx.Connect(ctx, defaultConnString)
	if err != nil {
		return fmt.Errorf("unable to connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		fmt.Printf("Database %s already exists.\n", cfg.DBName)
		return nil
	}

	fmt.Printf("Creating database %s...\n", cfg.DBName)
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	fmt.Println("Database created successfully.")
	return nil
}
