package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"storefront/internal/storage"
)

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "up", "migration mode: up, down or reset")
	flag.Parse()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL not set in environment")
	}

	ctx := context.Background()
	db, err := storage.OpenPostgres(ctx, dbURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := run(ctx, storage.NewPostgres(db), *mode); err != nil {
		log.Fatal(err)
	}
}

// schema is the part of storage.Postgres the tool drives.
type schema interface {
	storage.Store
	Migrate(ctx context.Context) error
	Drop(ctx context.Context) error
}

var stateKeys = []string{storage.KeyCart, storage.KeyUser, storage.KeyProducts, storage.KeyOrders}

func run(ctx context.Context, s schema, mode string) error {
	switch mode {
	case "up":
		if err := s.Migrate(ctx); err != nil {
			return err
		}
		fmt.Println("✅ kv_store table is ready.")
		return nil
	case "down":
		if err := s.Drop(ctx); err != nil {
			return err
		}
		fmt.Println("🧹 kv_store table dropped.")
		return nil
	case "reset":
		// the server falls back to seed data for every missing key
		for _, key := range stateKeys {
			if err := s.Delete(ctx, key); err != nil {
				return fmt.Errorf("failed to reset %s: %w", key, err)
			}
		}
		fmt.Println("✅ Storefront state reset to seed data.")
		return nil
	default:
		return fmt.Errorf("unknown mode: %s (use 'up', 'down' or 'reset')", mode)
	}
}
